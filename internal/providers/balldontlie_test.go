package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *BallDontLieClient {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client, err := NewBallDontLieClient(ClientConfig{
		APIKey:        "test-api-key",
		BaseURL:       serverURL,
		RatePerSecond: 1000,
		Timeout:       5 * time.Second,
	}, nil, logger)
	require.NoError(t, err)
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return client
}

func TestNewBallDontLieClient_RequiresAPIKey(t *testing.T) {
	_, err := NewBallDontLieClient(ClientConfig{APIKey: "  "}, nil, logrus.New())
	assert.Error(t, err)
}

func TestNewBallDontLieClient_Defaults(t *testing.T) {
	client, err := NewBallDontLieClient(ClientConfig{APIKey: "k"}, nil, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, defaultPerPage, client.perPage)
	assert.Equal(t, defaultMaxRetries, client.maxRetries)
	assert.Equal(t, "closed", client.BreakerState())
}

func TestBallDontLieClient_PaginatesWithCursor(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/standings", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			w.Write([]byte(`{"data":[{"team":{"id":1,"abbreviation":"BUF"},"season":2025,"wins":12,"losses":5}],"meta":{"next_cursor":42}}`))
		case "42":
			w.Write([]byte(`{"data":[{"team":{"id":2,"abbreviation":"KC"},"season":2025,"wins":11,"losses":6,"playoff_seed":3}],"meta":{}}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	standings, err := client.Standings(context.Background(), 2025)

	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "BUF", standings[0].Team.Abbreviation)
	require.NotNil(t, standings[1].PlayoffSeed)
	assert.Equal(t, 3, *standings[1].PlayoffSeed)
}

func TestBallDontLieClient_RetriesOn429(t *testing.T) {
	var calls int32
	var waited []time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":[{"id":1,"abbreviation":"buf","full_name":"Buffalo Bills","conference":"AFC","division":"EAST"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.sleep = func(ctx context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}

	teams, err := client.Teams(context.Background())

	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{2 * time.Second}, waited)
}

func TestBallDontLieClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Teams(context.Background())

	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, int32(defaultMaxRetries+1), atomic.LoadInt32(&calls))
}

func TestBallDontLieClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Injuries(context.Background())

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "closed", client.BreakerState())
}

func TestBallDontLieClient_PlayerPropsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/odds/player_props", r.URL.Path)
		assert.Equal(t, "77", r.URL.Query().Get("game_id"))
		assert.Equal(t, []string{"draftkings", "fanduel"}, r.URL.Query()["vendors[]"])
		w.Write([]byte(`{"data":[{"id":"abc","game_id":77,"player_id":5,"vendor":"DraftKings","prop_type":"receiving_yards","line_value":"64.5","market":{"type":"over_under","over_odds":-115,"under_odds":"-105"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	rows, err := client.PlayerProps(context.Background(), 77, "draftkings", "fanduel")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	mapped := MapPlayerProp(rows[0])
	assert.Equal(t, "abc", mapped.ID)
	assert.Equal(t, "draftkings", mapped.Vendor)
	require.NotNil(t, mapped.LineValue)
	assert.Equal(t, 64.5, *mapped.LineValue)
	require.NotNil(t, mapped.UnderOdds)
	assert.Equal(t, -105.0, *mapped.UnderOdds)
	assert.Nil(t, mapped.MilestoneOdds)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, 500*time.Millisecond, parseRetryAfter("0.5"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

func TestFlexibleID(t *testing.T) {
	var v struct {
		A flexibleID `json:"a"`
		B flexibleID `json:"b"`
		C flexibleID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":123,"b":"xyz","c":null}`), &v))
	assert.Equal(t, flexibleID("123"), v.A)
	assert.Equal(t, flexibleID("xyz"), v.B)
	assert.Equal(t, flexibleID(""), v.C)
}

func TestMapPlayerProp_Milestone(t *testing.T) {
	odds := 250.0
	p := PlayerProp{
		ID:       "m1",
		GameID:   1,
		PlayerID: 2,
		Vendor:   "fanduel",
		PropType: models.PropAnytimeTD,
		Market:   PropMarket{Type: models.MarketMilestone, Odds: flexibleFloat{Value: &odds}, OverOdds: flexibleFloat{Value: &odds}},
	}
	mapped := MapPlayerProp(p)
	require.NotNil(t, mapped.MilestoneOdds)
	assert.Equal(t, 250.0, *mapped.MilestoneOdds)
	assert.Nil(t, mapped.OverOdds)
}

func TestMapInjury(t *testing.T) {
	_, ok := MapInjury(Injury{Status: "Out"})
	assert.False(t, ok)

	inj, ok := MapInjury(Injury{Player: Player{ID: 9}, Status: "Questionable", Date: "2025-10-01T00:00:00.000Z"})
	require.True(t, ok)
	assert.Equal(t, 9, inj.PlayerID)
	assert.Equal(t, "Questionable", inj.Status)
}

func TestMapTeamAndPlayer(t *testing.T) {
	team := MapTeam(Team{ID: 3, Abbreviation: "kc", Location: "Kansas City", Name: "Chiefs", Conference: "afc", Division: "west"})
	assert.Equal(t, "KC", team.Abbreviation)
	assert.Equal(t, "Kansas City Chiefs", team.Name)
	assert.Equal(t, "AFC", team.Conference)

	player := MapPlayer(Player{ID: 10, FirstName: "A", LastName: "B", Position: "Wide Receiver", PositionAbbr: "wr", Team: &Team{ID: 3}})
	assert.Equal(t, "WR", player.Position)
	require.NotNil(t, player.TeamID)
	assert.Equal(t, 3, *player.TeamID)
}

func TestBallDontLieClient_SeasonAndGameStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/season_stats":
			assert.Equal(t, "2025", q.Get("season"))
			w.Write([]byte(`{"data":[
				{"player":{"id":12,"first_name":"Khalil","last_name":"Shakir","position_abbreviation":"WR"},"season":2025,"postseason":false,"games_played":5,"receiving_targets":35,"receptions":28,"receiving_yards":350,"qbr":null},
				{"player":{"id":10},"season":2025,"games_played":5,"passing_attempts":160,"passing_completions":110,"qbr":"71.2"},
				{"season":2025,"games_played":3}
			]}`))
		case "/stats":
			assert.Equal(t, []string{"2025"}, q["seasons[]"])
			assert.Equal(t, []string{"1", "2"}, q["weeks[]"])
			w.Write([]byte(`{"data":[
				{"player":{"id":12},"team":{"id":1},"game":{"id":101,"season":2025,"week":1},"receiving_targets":8,"receptions":6,"receiving_yards":90},
				{"player":{"id":12},"game":{}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	seasons, err := client.SeasonStats(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, seasons, 3)

	shakir, ok := MapSeasonStat(seasons[0])
	require.True(t, ok)
	assert.Equal(t, 12, shakir.PlayerID)
	assert.Equal(t, 35, shakir.ReceivingTargets)
	assert.Nil(t, shakir.QBR)

	allen, ok := MapSeasonStat(seasons[1])
	require.True(t, ok)
	require.NotNil(t, allen.QBR)
	assert.InDelta(t, 71.2, *allen.QBR, 1e-9)
	assert.InDelta(t, 68.75, allen.PassingCompletionPct, 1e-9)

	_, ok = MapSeasonStat(seasons[2])
	assert.False(t, ok)

	logs, err := client.GameStats(ctx, 2025, 1, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	line, ok := MapGameStat(logs[0])
	require.True(t, ok)
	assert.Equal(t, 101, line.GameID)
	assert.Equal(t, 1, line.Week)
	require.NotNil(t, line.TeamID)
	assert.Equal(t, 1, *line.TeamID)
	assert.Equal(t, 90, line.ReceivingYards)

	_, ok = MapGameStat(logs[1])
	assert.False(t, ok)
}

func TestBallDontLieClient_TeamStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/team_season_stats":
			assert.Equal(t, "2025", q.Get("season"))
			assert.Equal(t, []string{"1", "3"}, q["team_ids[]"])
			w.Write([]byte(`{"data":[{"team":{"id":1},"season_type":2,"games_played":5,"total_points_per_game":28,
				"misc_third_down_conv_pct":45.2,"misc_red_zone_efficiency":"12-18","misc_turnover_differential":4,"misc_total_giveaways":4,
				"opp_passing_yards_per_game":210.5,"opp_rushing_yards_per_game":95,"rushing_yards_per_rush_attempt":4.6}]}`))
		case "/team_stats":
			assert.Equal(t, []string{"2025"}, q["seasons[]"])
			w.Write([]byte(`{"data":[{"team":{"id":1},"game":{"id":101,"season":2025,"week":1},"total_yards":410,"red_zone_scores":3,"red_zone_attempts":4}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	none, err := client.TeamSeasonStats(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, none)

	rows, err := client.TeamSeasonStats(ctx, 2025, 1, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	st := MapTeamSeasonStat(rows[0], 2025)
	assert.Equal(t, 1, st.TeamID)
	assert.Equal(t, 2025, st.Season)
	assert.Equal(t, 2, st.SeasonType)
	assert.Equal(t, 4, st.TurnoverDifferential)
	assert.Equal(t, "12-18", st.RedZoneEfficiency)
	assert.InDelta(t, 210.5, st.OppPassingYardsPerGame, 1e-9)
	assert.InDelta(t, 4.6, st.RushingAverage, 1e-9)
	require.NotNil(t, st.ThirdDownConvPct)
	assert.InDelta(t, 45.2, *st.ThirdDownConvPct, 1e-9)

	games, err := client.TeamGameStats(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, games, 1)
	tg, ok := MapTeamGameStat(games[0])
	require.True(t, ok)
	assert.Equal(t, 101, tg.GameID)
	assert.Equal(t, 3, tg.RedZoneScores)
}

func TestBallDontLieClient_Roster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/1/roster", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Empty(t, r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"data":[
			{"player":{"id":12},"position":"PR","depth":1},
			{"player":{"id":12},"position":"WR","depth":2,"injury_status":"Questionable"},
			{"player":{"id":10},"position":"QB","depth":1},
			{"player":{"id":10},"position":"H","depth":2},
			{"position":"K","depth":1}
		]}`))
	}))
	defer server.Close()

	slots, err := newTestClient(t, server.URL).Roster(context.Background(), 1, 2025)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	entries := MapRoster(slots, 1, 2025)
	require.Len(t, entries, 2)
	assert.Equal(t, 12, entries[0].PlayerID)
	assert.Equal(t, "WR", entries[0].Position)
	assert.Equal(t, 2, entries[0].Depth)
	assert.Equal(t, "Questionable", entries[0].InjuryStatus)
	assert.Equal(t, "QB", entries[1].Position)
	assert.Equal(t, 2025, entries[1].Season)
}

func TestBallDontLieClient_OddsChunksGameIDs(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/odds", r.URL.Path)
		ids := r.URL.Query()["game_ids[]"]
		if n == 1 {
			assert.Len(t, ids, oddsChunk)
		} else {
			assert.Equal(t, []string{"51"}, ids)
		}
		w.Write([]byte(`{"data":[{"id":7,"game_id":1,"vendor":"draftkings","spread_home_value":"-2.5","total_value":47.5,"moneyline_home_odds":-135,"moneyline_away_odds":115}]}`))
	}))
	defer server.Close()

	ids := make([]int, 51)
	for i := range ids {
		ids[i] = i + 1
	}
	rows, err := newTestClient(t, server.URL).Odds(context.Background(), ids...)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, rows, 2)

	var line models.GameLine
	ApplyOdds(&line, rows[0])
	require.NotNil(t, line.SpreadLine)
	assert.Equal(t, "-2.5", *line.SpreadLine)
	require.NotNil(t, line.TotalLine)
	assert.Equal(t, 47.5, *line.TotalLine)
	require.NotNil(t, line.HomeMoneyline)
	assert.Equal(t, -135.0, *line.HomeMoneyline)
}
