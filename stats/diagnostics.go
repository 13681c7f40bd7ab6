package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Autocorrelation holds sample autocorrelations for lags 0..len(Values)-1 and the
// approximate 95% white-noise band ±1.96/√n.
type Autocorrelation struct {
	Values []float64
	Band   float64
}

// Autocorrelations returns the sample autocorrelation of values up to maxLag, capped
// at len(values)-1. It returns nil for fewer than two values or when the values have
// no (or NaN) spread.
func Autocorrelations(values []float64, maxLag int) *Autocorrelation {
	n := len(values)
	if n < 2 || maxLag < 0 {
		return nil
	}
	maxLag = min(maxLag, n-1)

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-stat.Mean(values, nil), centered)

	ss := floats.Dot(centered, centered)
	if ss == 0 || math.IsNaN(ss) {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / ss
	}
	return &Autocorrelation{Values: acf, Band: 1.96 / math.Sqrt(float64(n))}
}

// Lag returns the autocorrelation at lag k, or NaN when k was not computed.
func (a *Autocorrelation) Lag(k int) float64 {
	if a == nil || k < 0 || k >= len(a.Values) {
		return math.NaN()
	}
	return a.Values[k]
}

// Significant returns the lags from 1 up whose autocorrelation falls outside the band.
// A nil Autocorrelation has none.
func (a *Autocorrelation) Significant() []int {
	if a == nil {
		return nil
	}
	var lags []int
	for k := 1; k < len(a.Values); k++ {
		if math.Abs(a.Values[k]) > a.Band {
			lags = append(lags, k)
		}
	}
	return lags
}

// LjungBoxResult is the portmanteau test of residual autocorrelation up to Lags.
type LjungBoxResult struct {
	Q      float64
	PValue float64
	Lags   int
	DOF    int // Lags less the fitted parameters, at least 1
}

// LjungBox tests whether residuals are autocorrelated up to lags. fitdf is the
// number of estimated model parameters. Returns nil for fewer than 10 residuals,
// lags < 1, or residuals with no spread.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	lags = min(lags, n-1)

	acf := Autocorrelations(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf.Values[k] * acf.Values[k] / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	return &LjungBoxResult{
		Q:      q,
		PValue: distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:   lags,
		DOF:    dof,
	}
}

// Rejects reports whether no-autocorrelation is rejected at level alpha.
func (r *LjungBoxResult) Rejects(alpha float64) bool {
	return r.PValue < alpha
}

// DurbinWatson returns the statistic Σ(e[t]-e[t-1])² / Σe[t]². Values near 2 mean
// no first-order autocorrelation, below 2 positive and above 2 negative. It is NaN
// for fewer than two residuals or all-zero residuals.
func DurbinWatson(residuals []float64) float64 {
	n := len(residuals)
	if n < 2 {
		return math.NaN()
	}
	ss := floats.Dot(residuals, residuals)
	if ss == 0 {
		return math.NaN()
	}

	diffs := make([]float64, n-1)
	floats.SubTo(diffs, residuals[1:], residuals[:n-1])
	return floats.Dot(diffs, diffs) / ss
}

// ResidualDiagnostics bundles the residual checks reported for a fitted model.
type ResidualDiagnostics struct {
	LjungBox     *LjungBoxResult // nil when the test does not apply
	DurbinWatson float64         // NaN when undefined
}

// DiagnoseResiduals runs Ljung-Box over lags (with fitdf fitted parameters) and
// Durbin-Watson on residuals.
func DiagnoseResiduals(residuals []float64, lags, fitdf int) ResidualDiagnostics {
	return ResidualDiagnostics{
		LjungBox:     LjungBox(residuals, lags, fitdf),
		DurbinWatson: DurbinWatson(residuals),
	}
}
