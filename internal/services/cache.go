package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "nflstats:"

const (
	memorySweepInterval = time.Minute
	cacheRetryBackoff   = 100 * time.Millisecond
)

// Cache is the subset of CacheService the query services depend on.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// CacheService stores JSON values in Redis when a client is configured and
// in a process-local TTL map otherwise.
type CacheService struct {
	client  *redis.Client
	metrics *metrics.Manager

	mu         sync.RWMutex
	entries    map[string]memoryEntry
	sweepEvery time.Duration
	lastSweep  time.Time
}

func NewCacheService(client *redis.Client, m *metrics.Manager) *CacheService {
	return &CacheService{
		client:  client,
		metrics: m,
		entries:    make(map[string]memoryEntry),
		sweepEvery: memorySweepInterval,
		lastSweep:  time.Now(),
	}
}

// NewMemoryCache returns a cache that never leaves the process.
func NewMemoryCache() *CacheService {
	return NewCacheService(nil, nil)
}

// NewRedisClient parses REDIS_URL and pings the server. An empty URL yields
// a nil client, which selects the in-memory cache.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Backend names the store in use, for health output.
func (s *CacheService) Backend() string {
	if s.client != nil {
		return "redis"
	}
	return "memory"
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if s.client != nil {
		if err := s.client.Set(ctx, keyPrefix+key, data, expiration).Err(); err != nil {
			return fmt.Errorf("failed to set cache: %w", err)
		}
		return nil
	}

	now := time.Now()
	entry := memoryEntry{data: data}
	if expiration > 0 {
		entry.expiresAt = now.Add(expiration)
	}
	s.mu.Lock()
	s.entries[key] = entry
	if now.Sub(s.lastSweep) >= s.sweepEvery {
		s.sweepExpired(now)
	}
	s.mu.Unlock()
	return nil
}

// sweepExpired drops every expired memory entry. Callers hold s.mu.
func (s *CacheService) sweepExpired(now time.Time) {
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.lookup(ctx, key)
	s.metrics.RecordCacheLookup(err == nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (s *CacheService) lookup(ctx context.Context, key string) ([]byte, error) {
	if s.client != nil {
		data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrCacheMiss
			}
			return nil, fmt.Errorf("failed to get cache: %w", err)
		}
		return data, nil
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return entry.data, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if s.client != nil {
		prefixed := make([]string, len(keys))
		for i, k := range keys {
			prefixed[i] = keyPrefix + k
		}
		if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
	return nil
}

// DeletePrefix drops every key starting with prefix.
func (s *CacheService) DeletePrefix(ctx context.Context, prefix string) error {
	if s.client != nil {
		iter := s.client.Scan(ctx, 0, keyPrefix+prefix+"*", 200).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan cache: %w", err)
		}
		if len(keys) == 0 {
			return nil
		}
		return s.client.Del(ctx, keys...).Err()
	}

	s.mu.Lock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
	return nil
}

// Clear drops every key this service owns.
func (s *CacheService) Clear(ctx context.Context) error {
	if s.client != nil {
		return s.DeletePrefix(ctx, "")
	}
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

// SetWithRetry retries Set with a linear backoff, giving up early when ctx
// is done.
func (s *CacheService) SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"key":     key,
			"attempt": i + 1,
			"max":     maxRetries,
		}).Warn("Cache set failed")
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cacheRetryBackoff * time.Duration(i+1)):
		}
	}
	return err
}

// remember serves key from cache, loading and storing it on a miss. Cache
// failures are logged and never fail the request.
func remember[T any](ctx context.Context, cache Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if cache != nil {
		err := cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, value, ttl); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return value, nil
}

// Cache key generators
func SmashFeedCacheKey(season, week, limit int) string {
	return fmt.Sprintf("smash_feed:%d:%d:%d", season, week, limit)
}

func StandingsCacheKey(season int) string {
	return fmt.Sprintf("standings:%d", season)
}

func LeagueRanksCacheKey(season, seasonType int) string {
	return fmt.Sprintf("league_ranks:%d:%d", season, seasonType)
}

func OptionsCacheKey() string {
	return "options"
}
