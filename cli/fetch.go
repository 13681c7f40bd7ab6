package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/goinflation/timeseries"
)

const (
	levelsFile = "cpi_categories.csv"
	yoyFile    = "yoy_categories.csv"
)

// newFetchCmd creates the fetch command.
func (a *App) newFetchCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch CPI series and save levels and YoY inflation as CSV",
		Long: `Fetch the configured CPI categories and write two wide CSV files to the
output directory:

  ` + levelsFile + `   monthly index levels, one column per category
  ` + yoyFile + `   year-over-year inflation (%) on the same columns

The levels file can be read back with --source csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd.Context(), outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data", "Output directory")

	return cmd
}

func (a *App) runFetch(ctx context.Context, outDir string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	levels, err := a.fetch(ctx, cfg)
	if err != nil {
		return err
	}
	yoy, err := levels.YoY()
	if err != nil {
		return fmt.Errorf("year-over-year: %w", err)
	}
	if cfg.DropIncomplete {
		yoy = yoy.DropIncomplete()
	} else {
		yoy = yoy.DropEmpty()
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	levelsPath := filepath.Join(outDir, levelsFile)
	if err := timeseries.SaveTableCSV(levels, levelsPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", levelsPath, err)
	}
	yoyPath := filepath.Join(outDir, yoyFile)
	if err := timeseries.SaveTableCSV(yoy, yoyPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", yoyPath, err)
	}

	a.logger.Info("CSV files written",
		zap.String("levels", levelsPath),
		zap.String("yoy", yoyPath))
	fmt.Fprintf(a.stdout, "Wrote %s (%d months) and %s (%d months)\n",
		levelsPath, levels.Len(), yoyPath, yoy.Len())
	return nil
}
