package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"peloton/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var raceID string
	var riderKey string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent startlist changes from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled; set history.enabled = true in the config")
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			events, err := store.RecentEvents(cmd.Context(), history.Query{
				RaceID:   raceID,
				RiderKey: riderKey,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No recorded changes")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				rows = append(rows, []string{
					event.Timestamp.UTC().Format(time.RFC3339),
					event.RaceID,
					string(event.Kind),
					event.RiderName,
					event.RiderKey,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Race", "Change", "Rider", "Key"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&raceID, "race", "", "Only show changes for this race ID")
	cmd.Flags().StringVar(&riderKey, "rider", "", "Only show changes for this rider key")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of changes to show")
	return cmd
}
