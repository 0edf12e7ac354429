package featurestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Config selects and configures the persistence backend.
type Config struct {
	Driver         string        `env:"FEATURE_STORE_DRIVER" envDefault:"file"`
	FilePath       string        `env:"FEATURE_STORE_FILE" envDefault:"features.yaml"`
	SaveTimeout    time.Duration `env:"FEATURE_STORE_SAVE_TIMEOUT" envDefault:"5s"`
	NonPersistable []string      `env:"FEATURE_NON_PERSISTABLE" envSeparator:","`

	Redis    RedisConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	SQLite   SQLiteConfig
}

// Open connects the configured backend. SQL migrations run as part of Open.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (Store, error) {
	if log == nil {
		log = slog.Default()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	log = log.With(logger.Component("featurestore"), logger.Driver(driver))

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverFile:
		log.DebugContext(ctx, "using state file", slog.String("path", cfg.FilePath))
		return NewFileStore(cfg.FilePath), nil

	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Redis.Key), nil

	case DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool, cfg.Postgres.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgresStore(pool), nil

	case DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return NewMongoStore(coll, client), nil

	case DriverSQLite:
		log.DebugContext(ctx, "using sqlite database", slog.String("path", cfg.SQLite.Path))
		return OpenSQLite(ctx, cfg.SQLite, log)

	default:
		return nil, errors.Join(ErrUnknownDriver, fmt.Errorf("driver %q", cfg.Driver))
	}
}
