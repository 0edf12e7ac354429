package featurestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis backend.
type RedisConfig struct {
	URL            string        `env:"FEATURE_STORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Key            string        `env:"FEATURE_STORE_REDIS_KEY" envDefault:"togglekit:features"`
	RetryAttempts  int           `env:"FEATURE_STORE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"FEATURE_STORE_REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"FEATURE_STORE_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// ConnectRedis opens a client and pings it, retrying up to RetryAttempts times.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingConnectionURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrStoreNotReady, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var lastErr error
	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrStoreNotReady, lastErr)
}

// RedisStore keeps all states in one hash: field = feature name, value = "1" or "0".
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = "togglekit:features"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]State, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return parseRedisFields(fields)
}

// Save replaces the hash atomically.
func (s *RedisStore) Save(ctx context.Context, states []State) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(states) == 0 {
			return nil
		}
		values := make(map[string]any, len(states))
		for _, st := range states {
			values[st.Name] = formatRedisBool(st.Enabled)
		}
		pipe.HSet(ctx, s.key, values)
		return nil
	})
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Healthcheck pings the server.
func (s *RedisStore) Healthcheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func formatRedisBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseRedisFields(fields map[string]string) ([]State, error) {
	m := make(map[string]bool, len(fields))
	for name, raw := range fields {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, ErrInvalidStoredState, fmt.Errorf("feature %q: %w", name, err))
		}
		m[name] = enabled
	}
	return StatesFromMap(m), nil
}
