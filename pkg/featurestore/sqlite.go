package featurestore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteConfig describes the SQLite backend.
type SQLiteConfig struct {
	Path            string `env:"FEATURE_STORE_SQLITE_PATH" envDefault:"features.db"`
	MigrationsTable string `env:"FEATURE_STORE_SQLITE_MIGRATIONS_TABLE" envDefault:"feature_store_migrations"`
}

// OpenSQLite opens the database file and applies the embedded migrations.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig, log *slog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, ErrMissingConnectionURL
	}
	dsn := filepath.Clean(cfg.Path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(ErrStoreNotReady, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrStoreNotReady, err)
	}
	if err := migrate(ctx, db, goose.DialectSQLite3, "sqlite", cfg.MigrationsTable, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	// single writer
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// SQLiteStore keeps one row per feature in feature_states.
type SQLiteStore struct {
	db *sql.DB
}

func (s *SQLiteStore) Load(ctx context.Context) ([]State, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, enabled FROM feature_states ORDER BY lower(name)`)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	defer rows.Close()

	var states []State
	for rows.Next() {
		var st State
		if err := rows.Scan(&st.Name, &st.Enabled); err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return states, nil
}

// Save replaces the stored snapshot in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, states []State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `INSERT INTO feature_states (name, enabled, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET enabled = excluded.enabled, updated_at = CURRENT_TIMESTAMP
		WHERE feature_states.enabled <> excluded.enabled`)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	defer upsert.Close()

	args := make([]any, 0, len(states))
	for _, st := range states {
		if _, err := upsert.ExecContext(ctx, st.Name, st.Enabled); err != nil {
			return errors.Join(ErrSaveFailed, err)
		}
		args = append(args, st.Name)
	}

	del := `DELETE FROM feature_states`
	if len(args) > 0 {
		del += ` WHERE name NOT IN (?` + strings.Repeat(`, ?`, len(args)-1) + `)`
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Healthcheck pings the database.
func (s *SQLiteStore) Healthcheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
