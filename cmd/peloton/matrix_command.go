package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peloton/internal/logging"
	"peloton/internal/matrix"
)

func newMatrixCommand(ctx *commandContext) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show the rider presence matrix from the current snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}
			snap, err := ctx.loadSnapshot(logging.NewNop())
			if err != nil {
				return err
			}
			snap.PruneUnknownRaces(reg)
			rows := matrix.Build(snap, reg)

			if asCSV {
				return matrix.WriteCSV(cmd.OutOrStdout(), rows, reg)
			}

			headers := append([]string{"Rider"}, reg.Names()...)
			headers = append(headers, "Races")
			aligns := make([]columnAlignment, len(headers))
			aligns[len(aligns)-1] = alignRight

			cells := make([][]string, 0, len(rows))
			for _, row := range rows {
				cell := make([]string, 0, len(headers))
				cell = append(cell, row.RiderName)
				for _, present := range row.Presence {
					mark := ""
					if present {
						mark = "X"
					}
					cell = append(cell, mark)
				}
				cell = append(cell, row.CountCell(reg.Len()))
				cells = append(cells, cell)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, cells, aligns))
			fmt.Fprintf(out, "%d riders across %d races\n", len(rows), reg.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Emit the matrix as CSV instead of a table")
	return cmd
}
