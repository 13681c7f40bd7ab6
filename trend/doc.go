// Package trend fits a straight line to a series by ordinary least squares and
// extrapolates it.
//
// Each observation is placed at its position 0..n-1, so the slope is in units per
// month for monthly data:
//
//	forecast, model, err := trend.Forecast(yoy, 12)
//	fmt.Printf("slope %.4f pp/month, R² %.3f\n", model.Slope, model.RSquared)
//
// Forecast timestamps are the first of each month following the last observation.
package trend
