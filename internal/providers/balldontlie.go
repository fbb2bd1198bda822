package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.balldontlie.io/nfl/v1"
	defaultPerPage    = 100
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
)

// StatusError is a non-2xx response from the provider.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s %s", e.StatusCode, e.Method, e.URL)
}

// retryable reports whether the status warrants another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type ClientConfig struct {
	APIKey           string
	BaseURL          string
	RatePerSecond    float64
	Timeout          time.Duration
	BreakerThreshold int
	MaxRetries       int
}

// BallDontLieClient talks to the BALLDONTLIE NFL API. Requests are paced by
// a token bucket, guarded by a circuit breaker and retried on 429 and 5xx.
type BallDontLieClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	perPage     int
	maxRetries  int
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	metrics     *metrics.Manager
	logger      *logrus.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewBallDontLieClient(cfg ClientConfig, m *metrics.Manager, logger *logrus.Logger) (*BallDontLieClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("BALLDONTLIE api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSec := cfg.RatePerSecond
	if perSec <= 0 {
		perSec = 9
	}
	threshold := cfg.BreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "balldontlie",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return !se.retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"provider":   name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Provider circuit breaker state changed")
		},
	})

	return &BallDontLieClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      apiKey,
		perPage:     defaultPerPage,
		maxRetries:  retries,
		rateLimiter: rate.NewLimiter(rate.Limit(perSec), 1),
		breaker:     breaker,
		metrics:     m,
		logger:      logger,
		sleep:       sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BreakerState exposes the circuit breaker state for status endpoints.
func (c *BallDontLieClient) BreakerState() string {
	return c.breaker.State().String()
}

// get fetches path with retries and decodes the JSON body into dest.
func (c *BallDontLieClient) get(ctx context.Context, path string, params url.Values, dest interface{}) (err error) {
	defer func() { c.metrics.RecordProviderRequest(path, err) }()

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	backoff := defaultBackoff
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		var retryAfter time.Duration
		body, err := c.breaker.Execute(func() (interface{}, error) {
			b, wait, err := c.do(ctx, endpoint)
			retryAfter = wait
			return b, err
		})
		if err == nil {
			return json.Unmarshal(body.([]byte), dest)
		}

		var se *StatusError
		retry := errors.As(err, &se) && se.retryable()
		if !retry && se == nil && ctx.Err() == nil &&
			!errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
			// transport errors
			retry = true
		}
		if !retry || attempt >= c.maxRetries {
			return err
		}

		wait := backoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		c.logger.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).WithError(err).Warn("Retrying provider request")
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		backoff *= 2
	}
}

func (c *BallDontLieClient) do(ctx context.Context, endpoint string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &StatusError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			URL:        endpoint,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, 0, nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

type page[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		NextCursor flexibleID `json:"next_cursor"`
		PerPage    int        `json:"per_page"`
	} `json:"meta"`
}

// paginate walks a cursor-paginated endpoint and hands every row to fn.
func paginate[T any](ctx context.Context, c *BallDontLieClient, path string, params url.Values, fn func(T) error) error {
	cursor := ""
	for {
		p := url.Values{}
		for k, v := range params {
			p[k] = append([]string(nil), v...)
		}
		if p.Get("per_page") == "" {
			p.Set("per_page", strconv.Itoa(c.perPage))
		}
		if cursor != "" {
			p.Set("cursor", cursor)
		}

		var pg page[T]
		if err := c.get(ctx, path, p, &pg); err != nil {
			return err
		}
		for _, row := range pg.Data {
			if err := fn(row); err != nil {
				return err
			}
		}

		next := string(pg.Meta.NextCursor)
		if next == "" || next == "0" {
			return nil
		}
		cursor = next
	}
}

// collect gathers every row of a paginated endpoint.
func collect[T any](ctx context.Context, c *BallDontLieClient, path string, params url.Values) ([]T, error) {
	var out []T
	err := paginate(ctx, c, path, params, func(row T) error {
		out = append(out, row)
		return nil
	})
	return out, err
}

// flexibleID accepts ids and cursors sent either as numbers or strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

func (c *BallDontLieClient) Teams(ctx context.Context) ([]Team, error) {
	var resp page[Team]
	if err := c.get(ctx, "/teams", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *BallDontLieClient) Games(ctx context.Context, season int, weeks ...int) ([]Game, error) {
	params := url.Values{"seasons[]": {strconv.Itoa(season)}}
	for _, w := range weeks {
		params.Add("weeks[]", strconv.Itoa(w))
	}
	return collect[Game](ctx, c, "/games", params)
}

func (c *BallDontLieClient) Standings(ctx context.Context, season int) ([]Standing, error) {
	return collect[Standing](ctx, c, "/standings", url.Values{"season": {strconv.Itoa(season)}})
}

func (c *BallDontLieClient) Injuries(ctx context.Context, teamIDs ...int) ([]Injury, error) {
	params := url.Values{}
	for _, id := range teamIDs {
		params.Add("team_ids[]", strconv.Itoa(id))
	}
	return collect[Injury](ctx, c, "/player_injuries", params)
}

func (c *BallDontLieClient) PlayerProps(ctx context.Context, gameID int, vendors ...string) ([]PlayerProp, error) {
	params := url.Values{"game_id": {strconv.Itoa(gameID)}}
	for _, v := range vendors {
		params.Add("vendors[]", v)
	}
	return collect[PlayerProp](ctx, c, "/odds/player_props", params)
}

// oddsChunk caps the game ids sent per /odds request.
const oddsChunk = 50

func (c *BallDontLieClient) ActivePlayers(ctx context.Context) ([]Player, error) {
	return collect[Player](ctx, c, "/players/active", nil)
}

func (c *BallDontLieClient) SeasonStats(ctx context.Context, season int) ([]SeasonStat, error) {
	return collect[SeasonStat](ctx, c, "/season_stats", url.Values{"season": {strconv.Itoa(season)}})
}

func (c *BallDontLieClient) GameStats(ctx context.Context, season int, weeks ...int) ([]GameStat, error) {
	params := url.Values{"seasons[]": {strconv.Itoa(season)}}
	for _, w := range weeks {
		params.Add("weeks[]", strconv.Itoa(w))
	}
	return collect[GameStat](ctx, c, "/stats", params)
}

// TeamSeasonStats requires at least one team id.
func (c *BallDontLieClient) TeamSeasonStats(ctx context.Context, season int, teamIDs ...int) ([]TeamSeasonStat, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	params := url.Values{"season": {strconv.Itoa(season)}}
	for _, id := range teamIDs {
		params.Add("team_ids[]", strconv.Itoa(id))
	}
	return collect[TeamSeasonStat](ctx, c, "/team_season_stats", params)
}

func (c *BallDontLieClient) TeamGameStats(ctx context.Context, season int, weeks ...int) ([]TeamGameStat, error) {
	params := url.Values{"seasons[]": {strconv.Itoa(season)}}
	for _, w := range weeks {
		params.Add("weeks[]", strconv.Itoa(w))
	}
	return collect[TeamGameStat](ctx, c, "/team_stats", params)
}

// Roster returns a team's depth chart. The endpoint is not paginated.
func (c *BallDontLieClient) Roster(ctx context.Context, teamID, season int) ([]RosterSlot, error) {
	var resp page[RosterSlot]
	path := fmt.Sprintf("/teams/%d/roster", teamID)
	if err := c.get(ctx, path, url.Values{"season": {strconv.Itoa(season)}}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Odds fetches game lines for gameIDs, oddsChunk games per request.
func (c *BallDontLieClient) Odds(ctx context.Context, gameIDs ...int) ([]GameOdds, error) {
	var out []GameOdds
	for start := 0; start < len(gameIDs); start += oddsChunk {
		end := start + oddsChunk
		if end > len(gameIDs) {
			end = len(gameIDs)
		}
		params := url.Values{}
		for _, id := range gameIDs[start:end] {
			params.Add("game_ids[]", strconv.Itoa(id))
		}
		rows, err := collect[GameOdds](ctx, c, "/odds", params)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}
