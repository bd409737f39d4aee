package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"peloton/internal/logging"
	"peloton/internal/matrix"
	"peloton/internal/viewer"
)

func newViewerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewer",
		Short: "Regenerate the HTML viewer from the current snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
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
			if err := viewer.WriteFile(cfg.ViewerPath(), rows, reg, time.Now()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote viewer to %s\n", cfg.ViewerPath())
			return nil
		},
	}
}
