// Package stats provides rolling statistics, spike ranking and residual diagnostics
// for year-over-year inflation series.
//
// # Rolling Statistics
//
//	rs, err := stats.Rolling(yoy, stats.DefaultWindow)
//	mean, ok := rs.Mean.At(i)   // absent until the first full window
//
// The standard deviation is the sample (N-1) estimator, so the window must hold at
// least two observations.
//
// # Spikes
//
//	spikes, err := stats.TopSpikes(yoy, stats.DefaultTopK)
//	for _, s := range spikes {
//	    fmt.Printf("%d. %s  %.2f%%\n", s.Rank, s.Time.Format("2006-01"), s.Value)
//	}
//
// # Diagnostics
//
// Autocorrelations, Ljung-Box and Durbin-Watson check forecast residuals:
//
//	d := stats.DiagnoseResiduals(model.Residuals(), 10, 1)
//	if d.LjungBox != nil && d.LjungBox.Rejects(0.05) {
//	    // residuals still autocorrelated
//	}
package stats
