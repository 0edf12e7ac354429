package featurestore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresConfig describes the Postgres backend.
type PostgresConfig struct {
	URL             string        `env:"FEATURE_STORE_PG_URL"`
	MaxConns        int32         `env:"FEATURE_STORE_PG_MAX_CONNS" envDefault:"4"`
	RetryAttempts   int           `env:"FEATURE_STORE_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"FEATURE_STORE_PG_RETRY_INTERVAL" envDefault:"2s"`
	MigrationsTable string        `env:"FEATURE_STORE_PG_MIGRATIONS_TABLE" envDefault:"feature_store_migrations"`
}

// ConnectPostgres opens a pool and pings it. Waits grow linearly between attempts.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, ErrMissingConnectionURL
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrStoreNotReady, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrStoreNotReady, lastErr)
}

// MigratePostgres creates the feature_states table using the embedded goose migrations.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, db, goose.DialectPostgres, "postgres", table, log)
}

// PostgresStore keeps one row per feature in feature_states.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) ([]State, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, enabled FROM feature_states ORDER BY lower(name)`)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	states, err := pgx.CollectRows(rows, pgx.RowToStructByName[State])
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return states, nil
}

// Save upserts every state and deletes rows for features no longer present,
// all in one transaction.
func (s *PostgresStore) Save(ctx context.Context, states []State) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		names := make([]string, 0, len(states))
		batch := &pgx.Batch{}
		for _, st := range states {
			names = append(names, st.Name)
			batch.Queue(`INSERT INTO feature_states (name, enabled, updated_at)
				VALUES ($1, $2, NOW())
				ON CONFLICT (name) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = NOW()
				WHERE feature_states.enabled IS DISTINCT FROM EXCLUDED.enabled`,
				st.Name, st.Enabled)
		}
		batch.Queue(`DELETE FROM feature_states WHERE NOT (name = ANY($1))`, names)
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Healthcheck pings the database.
func (s *PostgresStore) Healthcheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
