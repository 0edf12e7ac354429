package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/togglekit/pkg/diagnostic"
	"github.com/dmitrymomot/togglekit/pkg/feature"
	"github.com/dmitrymomot/togglekit/pkg/featureapi"
	"github.com/dmitrymomot/togglekit/pkg/featurestore"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// Config is read from the environment and optional .env files.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	JournalSize          int           `env:"FAULT_JOURNAL_SIZE" envDefault:"50"`
	EnforceCompatibility bool          `env:"ENFORCE_COMPATIBILITY" envDefault:"false"`
	TickInterval         time.Duration `env:"TICK_INTERVAL" envDefault:"50ms"`

	Store featurestore.Config
}

func runServe(ctx context.Context, cfg Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := featurestore.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}

	cat := newCatalog(log)
	saver := newSaver(store, cfg, log, cat)
	defer func() {
		if err := saver.Close(); err != nil {
			log.Error("failed to close feature store", logger.Error(err))
		}
	}()

	journal := diagnostic.NewJournal(cfg.JournalSize)
	reg := feature.NewRegistry(
		feature.WithRegistryReporter(diagnostic.Multi(diagnostic.NewLogReporter(log), journal)),
		feature.WithRegistryPersister(saver),
	)
	saver.Track(reg)

	if err := cat.register(reg); err != nil {
		return err
	}

	if _, err := saver.Restore(ctx, reg); err != nil {
		return err
	}

	api := featureapi.New(reg, featureapi.WithFaults(journal), featureapi.WithLogger(log))
	if affected := api.EnforceCompatibility(ctx, cfg.EnforceCompatibility); len(affected) > 0 {
		log.InfoContext(ctx, "restricted features blocked", logger.Features(affected))
	}

	go cat.tick(ctx, cfg.TickInterval)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Mount("/", api.Router())

	return serve(ctx, cfg, log, r)
}

// newSaver excludes the catalog's session-only features on top of the configured ones.
func newSaver(store featurestore.Store, cfg Config, log *slog.Logger, cat *catalog) *featurestore.Saver {
	return featurestore.NewSaver(store,
		featurestore.WithLogger(log),
		featurestore.WithSaveTimeout(cfg.Store.SaveTimeout),
		featurestore.WithNonPersistable(cat.nonPersistable()...),
		featurestore.WithNonPersistable(cfg.Store.NonPersistable...),
	)
}

func serve(ctx context.Context, cfg Config, log *slog.Logger, h http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("http server started", slog.String("addr", cfg.Addr))

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown failed", logger.Error(err))
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return runErr
	}
	log.Info("http server stopped")
	return nil
}
