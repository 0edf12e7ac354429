package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/togglekit/pkg/config"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

type appKey struct{}

// app is what every subcommand gets after the root has loaded configuration.
type app struct {
	cfg Config
	log *slog.Logger
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

func newRootCmd() *cobra.Command {
	var (
		envFiles []string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "featured",
		Short:         "Feature toggle host",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var opts []config.Option
			if len(envFiles) > 0 {
				opts = append(opts, config.WithEnvFiles(envFiles...))
			}
			cfg, err := config.Load[Config](opts...)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			logger.SetAsDefault(log)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appKey{}, &app{cfg: cfg, log: log}))
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "load variables from these .env files")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd(), newStatesCmd())
	root.RunE = serve.RunE

	return root
}

func newLogger(cfg Config) (*slog.Logger, error) {
	opts := []logger.Option{logger.WithEnvironment(cfg.Env, "featured")}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the feature API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			return runServe(cmd.Context(), a.cfg, a.log)
		},
	}
}
