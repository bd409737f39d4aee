package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"peloton/internal/history"
	"peloton/internal/pcs"
	"peloton/internal/tracker"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var noViewer bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch startlists, record changes, and regenerate outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}
			client, err := pcs.New(cfg.Fetch.BaseURL, cfg.Fetch.UserAgent, cfg.FetchTimeout())
			if err != nil {
				return err
			}

			var opts []tracker.Option
			if cfg.History.Enabled && !dryRun {
				store, err := history.Open(cfg.HistoryPath())
				if err != nil {
					return fmt.Errorf("open history database: %w", err)
				}
				defer store.Close()
				opts = append(opts, tracker.WithHistory(store))
			}

			tr, err := tracker.New(cfg, reg, client, logger, opts...)
			if err != nil {
				return err
			}

			summary, err := tr.Run(cmd.Context(), tracker.RunOptions{
				DryRun:     dryRun,
				SkipViewer: noViewer,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := "Update"
			if dryRun {
				label = "Dry run"
			}
			fmt.Fprintf(out, "%s complete: %d/%d startlists fetched, %d riders tracked, %d changes (%s)\n",
				label, summary.RacesFetched, reg.Len(), summary.Riders, len(summary.Events),
				summary.Duration.Round(time.Millisecond))
			for _, event := range summary.Events {
				fmt.Fprintf(out, "  %-7s %s  %s (%s)\n", event.Kind, event.RaceID, event.RiderName, event.RiderKey)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and diff without writing any files")
	cmd.Flags().BoolVar(&noViewer, "skip-viewer", false, "Skip regenerating the HTML viewer")
	return cmd
}
