package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/goinflation/pipeline"
)

// reportOptions holds options for the report command.
type reportOptions struct {
	format         string
	window         int
	topK           int
	periods        int
	recent         int
	dropIncomplete bool
}

// newReportCmd creates the report command.
func (a *App) newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch CPI series and print the inflation report",
		Long: `Fetch the configured CPI categories, compute year-over-year inflation and
print rolling statistics, the largest headline spikes and trend and AR(1)
forecasts.

Examples:
  # Built-in categories from FRED
  FRED_API_KEY=... inflation report

  # From a CSV written by "inflation fetch", as JSON
  inflation report --source csv --csv data/cpi_categories.csv --format json

  # Custom categories and a six-month window
  inflation report -c inflation.yaml --window 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().IntVar(&opts.window, "window", 0, "Rolling window in months (overrides config)")
	cmd.Flags().IntVar(&opts.topK, "top", 0, "Number of spikes (overrides config)")
	cmd.Flags().IntVar(&opts.periods, "periods", 0, "Forecast horizon in months (overrides config)")
	cmd.Flags().IntVar(&opts.recent, "recent", 0, "Latest YoY months shown (overrides config)")
	cmd.Flags().BoolVar(&opts.dropIncomplete, "drop-incomplete", false, "Keep only months every category observes")

	return cmd
}

func (a *App) runReport(ctx context.Context, cmd *cobra.Command, opts *reportOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.window > 0 {
		cfg.Window = opts.window
	}
	if opts.topK > 0 {
		cfg.TopK = opts.topK
	}
	if opts.periods > 0 {
		cfg.Periods = opts.periods
	}
	if cmd.Flags().Changed("recent") {
		cfg.Recent = opts.recent
	}
	if opts.dropIncomplete {
		cfg.DropIncomplete = true
	}

	levels, err := a.fetch(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := pipeline.Analyze(levels, cfg)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	a.logger.Info("report computed",
		zap.String("headline", cfg.Headline),
		zap.Int("yoy_months", report.YoY.Len()),
		zap.Int("spikes", len(report.Spikes)))

	if opts.format == "json" {
		return report.WriteJSON(a.stdout)
	}
	return report.WriteText(a.stdout)
}
