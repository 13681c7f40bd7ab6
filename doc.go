// Package goinflation explores monthly consumer price inflation.
//
// It fetches CPI index levels for a set of categories, converts them to
// year-over-year inflation and reports trailing rolling statistics, the largest
// headline spikes and two short-horizon headline forecasts: a linear trend and a
// first-order autoregression.
//
// # Quick Start
//
// Analyze a series you already have:
//
//	levels := timeseries.NewMonthly("All Items", start, values)
//	yoy, _ := levels.YoY()
//	spikes, _ := stats.TopSpikes(yoy, 3)
//	forecast, model, _ := ar1.Forecast(yoy, 12)
//
// Or run the whole report against FRED:
//
//	report, _ := pipeline.Run(ctx, fred.NewClient(apiKey), pipeline.DefaultConfig())
//	report.WriteText(os.Stdout)
//
// The inflation command (cmd/inflation) wraps the same pipeline.
//
// # Packages
//
//   - timeseries: monthly series, aligned tables, YoY change and CSV I/O
//   - stats: rolling statistics, spike ranking and residual diagnostics
//   - trend: least-squares linear trend forecasts
//   - ar1: AR(1) forecasts
//   - source: series sources (FRED API, CSV files, in-memory) and concurrent fetch
//   - pipeline: configuration, end-to-end analysis and report rendering
//   - cli: the command-line interface
package goinflation
