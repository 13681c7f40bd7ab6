package ar1

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goinflation/stats"
	"github.com/sartorproj/goinflation/timeseries"
)

// Model is a first-order autoregression value[t] = Coeff*value[t-1] + Intercept.
type Model struct {
	Coeff     float64 // a: weight on the previous value
	Intercept float64 // b
	Variance  float64 // Residual variance
	Rank      int     // rank of the lagged design matrix; 1 for a constant history
	fitted    bool
	data      *timeseries.Series
	residuals []float64
	fittedVal []float64
}

// New creates an unfitted AR(1) model.
func New() *Model {
	return &Model{}
}

// Fit estimates the recurrence by least squares over the n-1 lagged pairs
// (value[t-1], value[t]). At least three observations are required so that two
// pairs constrain the line.
func (m *Model) Fit(series *timeseries.Series) error {
	n := series.Len()
	if n < 3 {
		return fmt.Errorf("%w: AR(1) needs at least 3 observations (2 lagged pairs), got %d",
			timeseries.ErrInsufficientData, n)
	}
	if len(series.Timestamps) != n {
		return fmt.Errorf("%w: series %q has %d timestamps for %d values",
			timeseries.ErrInvalidArgument, series.Name, len(series.Timestamps), n)
	}
	if !series.Finite() {
		return fmt.Errorf("%w: series %q contains non-finite values", timeseries.ErrDegenerateFit, series.Name)
	}

	x := series.Values[:n-1]
	y := series.Values[1:]

	a, b, rank, err := lineFit(x, y)
	if err != nil {
		return err
	}

	m.Coeff = a
	m.Intercept = b
	m.Rank = rank
	m.data = series.Copy()

	m.residuals = make([]float64, len(y))
	m.fittedVal = make([]float64, len(y))
	sse := 0.0
	for i := range y {
		m.fittedVal[i] = a*x[i] + b
		m.residuals[i] = y[i] - m.fittedVal[i]
		sse += m.residuals[i] * m.residuals[i]
	}

	// Two estimated parameters.
	if len(y) > 2 {
		m.Variance = sse / float64(len(y)-2)
	} else {
		m.Variance = 0
	}

	m.fitted = true
	return nil
}

// lineFit solves [x 1]·[a b]ᵀ ≈ y in the least-squares sense. Columns are scaled
// to unit norm and the system is solved through a thin SVD, so a rank-deficient
// design gets the minimum-norm solution. That solution is only accepted when it
// reproduces every pair; otherwise the slope is undetermined.
func lineFit(x, y []float64) (a, b float64, rank int, err error) {
	rows := len(x)

	xNorm, oneNorm := 0.0, math.Sqrt(float64(rows))
	for _, v := range x {
		xNorm += v * v
	}
	xNorm = math.Sqrt(xNorm)
	if xNorm == 0 {
		xNorm = 1
	}

	design := mat.NewDense(rows, 2, nil)
	for i, v := range x {
		design.Set(i, 0, v/xNorm)
		design.Set(i, 1, 1/oneNorm)
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return 0, 0, 0, fmt.Errorf("%w: SVD of the lagged design did not converge", timeseries.ErrDegenerateFit)
	}

	rank = svd.Rank(float64(rows) * eps)

	var coef mat.VecDense
	svd.SolveVecTo(&coef, mat.NewVecDense(rows, append([]float64(nil), y...)), rank)

	a = coef.AtVec(0) / xNorm
	b = coef.AtVec(1) / oneNorm

	if rank < 2 {
		scale := 1.0
		for _, v := range y {
			scale = math.Max(scale, math.Abs(v))
		}
		for i := range x {
			if math.Abs(y[i]-(a*x[i]+b)) > 1e-9*scale {
				return 0, 0, rank, fmt.Errorf("%w: lagged values have zero variance but the next values differ",
					timeseries.ErrDegenerateFit)
			}
		}
	}
	return a, b, rank, nil
}

// eps is the float64 machine epsilon, the relative cutoff for singular values.
const eps = 2.220446049250313e-16

// Predict rolls the recurrence forward from the last observation, feeding each
// prediction back in as the next previous value.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}

	if steps < 1 {
		return nil, fmt.Errorf("%w: steps must be at least 1", timeseries.ErrInvalidArgument)
	}

	_, last, _ := m.data.Last()
	forecasts := make([]float64, steps)
	for h := range forecasts {
		last = m.Coeff*last + m.Intercept
		forecasts[h] = last
	}
	return forecasts, nil
}

// Forecast returns Predict(steps) dated at the months following the last observation.
func (m *Model) Forecast(steps int) (*timeseries.Series, error) {
	values, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	lastTime, _, _ := m.data.Last()
	return &timeseries.Series{
		Timestamps: timeseries.MonthsAfter(lastTime, steps),
		Values:     values,
		Name:       m.data.Name + "_ar1",
	}, nil
}

// Residuals returns the model residuals, one per lagged pair.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the one-step-ahead fitted values, one per lagged pair.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVal))
	copy(result, m.fittedVal)
	return result
}

// Stationary reports whether |Coeff| < 1, in which case the rollout converges to Mean.
func (m *Model) Stationary() bool {
	return math.Abs(m.Coeff) < 1
}

// Mean returns the fixed point b/(1-a) the rollout converges to, or NaN when the
// recurrence has none.
func (m *Model) Mean() float64 {
	if m.Coeff == 1 {
		return math.NaN()
	}
	return m.Intercept / (1 - m.Coeff)
}

// Summary describes a fitted model.
type Summary struct {
	Coeff      float64
	Intercept  float64
	Variance   float64
	Mean       float64
	Stationary bool
	Rank       int
	NObs       int
	Lag1ACF    float64 // lag-1 autocorrelation of the history; NaN for a constant series
	Residuals  stats.ResidualDiagnostics
}

// Summary returns a summary of the fitted model with residual diagnostics
// (Ljung-Box over 10 lags with one fitted slope, and Durbin-Watson).
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	return &Summary{
		Coeff:      m.Coeff,
		Intercept:  m.Intercept,
		Variance:   m.Variance,
		Mean:       m.Mean(),
		Stationary: m.Stationary(),
		Rank:       m.Rank,
		NObs:       m.data.Len(),
		Lag1ACF:    stats.Autocorrelations(m.data.Values, 1).Lag(1),
		Residuals:  stats.DiagnoseResiduals(m.residuals, 10, 1),
	}
}

// Forecast fits an AR(1) model to series and rolls it forward periods months.
func Forecast(series *timeseries.Series, periods int) (*timeseries.Series, *Model, error) {
	m := New()
	if err := m.Fit(series); err != nil {
		return nil, nil, err
	}
	f, err := m.Forecast(periods)
	if err != nil {
		return nil, nil, err
	}
	return f, m, nil
}
