// Package pipeline runs the inflation analysis end to end.
//
// Analyze turns an aligned table of CPI levels into a Report: year-over-year
// inflation per category, trailing rolling statistics, the largest headline
// spikes and two twelve-month headline forecasts (linear trend and AR(1)).
// Run fetches the levels from a source.Source first.
//
//	cfg := pipeline.DefaultConfig()
//	report, err := pipeline.Run(ctx, fred.NewClient(apiKey), cfg)
//	if err != nil {
//		return err
//	}
//	report.WriteText(os.Stdout)
package pipeline
