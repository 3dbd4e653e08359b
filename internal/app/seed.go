package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agbru/sysoptimizer/internal/analysis"
	"github.com/agbru/sysoptimizer/internal/logging"
)

func (a *Application) newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Append synthetic system rows with a CPU plateau, for trying out report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSeed(cmd.Context())
		},
	}
}

func (a *Application) runSeed(ctx context.Context) error {
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rows := analysis.SeedRows(a.now())
	for _, r := range rows {
		if err := st.AppendSystemSample(ctx, r); err != nil {
			return err
		}
	}
	a.logger.Info("seed rows written", logging.Int("rows", len(rows)))
	fmt.Fprintf(a.Out, "Seeded %d system rows into %s\n", len(rows), st.Path())
	return nil
}
