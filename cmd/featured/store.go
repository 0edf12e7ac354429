package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/togglekit/pkg/featurestore"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply feature store migrations for the configured driver",
		Long: `Opens the configured feature store and exits. The postgres and sqlite
drivers apply their embedded migrations on open; other drivers need none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			store, err := featurestore.Open(cmd.Context(), a.cfg.Store, a.log)
			if err != nil {
				return err
			}
			defer store.Close()
			a.log.InfoContext(cmd.Context(), "feature store ready", logger.Driver(a.cfg.Store.Driver))
			return nil
		},
	}
}

func newStatesCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "states",
		Short: "Print the persisted feature states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			store, err := featurestore.Open(cmd.Context(), a.cfg.Store, a.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					a.log.Warn("failed to close feature store", logger.Error(err))
				}
			}()

			states, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Debug("states loaded", slog.Int("count", len(states)))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENABLED")
			for _, st := range states {
				if enabledOnly && !st.Enabled {
					continue
				}
				fmt.Fprintf(w, "%s\t%t\n", st.Name, st.Enabled)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only list enabled features")
	return cmd
}
