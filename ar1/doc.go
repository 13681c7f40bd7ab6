// Package ar1 implements a first-order autoregressive forecaster.
//
// The model value[t] = a·value[t-1] + b is fit by ordinary least squares over the
// consecutive pairs of the history, then rolled forward from the last observation
// with each prediction used as the next lag:
//
//	forecast, model, err := ar1.Forecast(yoy, 12)
//	summary := model.Summary()
//	fmt.Printf("a=%.3f b=%.3f converges to %.2f\n", summary.Coeff, summary.Intercept, summary.Mean)
//
// There is no exogenous correction, so forecast error compounds with the horizon.
//
// # Degenerate Histories
//
// When the lagged values have no variance the slope is not identified. A constant
// history is still consistent with many lines; the minimum-norm least-squares
// solution is used and the forecast stays at the constant. Any other zero-variance
// history returns timeseries.ErrDegenerateFit.
//
// # Diagnostics
//
// Summary reports the lag-1 autocorrelation of the history together with
// Ljung-Box and Durbin-Watson statistics of the residuals.
package ar1
