package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"peloton/internal/logging"
)

func newRacesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "races",
		Short: "List the tracked races and their current roster sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}
			snap, err := ctx.loadSnapshot(logging.NewNop())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, reg.Len())
			for _, race := range reg.Races() {
				riders := len(snap.KeysInRace(race.ID))
				rows = append(rows, []string{
					race.ID,
					race.Name,
					strconv.Itoa(riders),
					race.URL,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Race", "Riders", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
