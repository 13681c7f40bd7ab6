package trend

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goinflation/timeseries"
)

// Model is a least-squares line y = Slope*x + Intercept fit against the
// observation index x = 0..n-1.
type Model struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	fitted    bool
	n         int
	last      time.Time
	name      string
	residuals []float64
	fittedVal []float64
}

// New creates an unfitted trend model.
func New() *Model {
	return &Model{}
}

// Fit fits the line to the series by ordinary least squares.
// At least two observations are required, and all of them must be finite.
func (m *Model) Fit(series *timeseries.Series) error {
	n := series.Len()
	if n < 2 {
		return fmt.Errorf("%w: a trend line needs at least 2 observations, got %d", timeseries.ErrInsufficientData, n)
	}
	if len(series.Timestamps) != n {
		return fmt.Errorf("%w: series %q has %d timestamps for %d values",
			timeseries.ErrInvalidArgument, series.Name, len(series.Timestamps), n)
	}
	if !series.Finite() {
		return fmt.Errorf("%w: series %q contains non-finite values", timeseries.ErrDegenerateFit, series.Name)
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	y := series.Values

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	m.Slope = slope
	m.Intercept = intercept
	m.RSquared = 1 // a constant series is fit exactly
	if stat.Variance(y, nil) > 0 {
		m.RSquared = stat.RSquared(x, y, nil, intercept, slope)
	}
	m.n = n
	m.last = series.Timestamps[n-1]
	m.name = series.Name

	m.fittedVal = make([]float64, n)
	m.residuals = make([]float64, n)
	for i := range x {
		m.fittedVal[i] = m.at(i)
		m.residuals[i] = y[i] - m.fittedVal[i]
	}

	m.fitted = true
	return nil
}

func (m *Model) at(i int) float64 {
	return m.Slope*float64(i) + m.Intercept
}

// Predict extrapolates the line for indices n..n+steps-1.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps must be at least 1", timeseries.ErrInvalidArgument)
	}

	out := make([]float64, steps)
	for h := range out {
		out[h] = m.at(m.n + h)
	}
	return out, nil
}

// Forecast returns Predict(steps) dated at the months following the last observation.
func (m *Model) Forecast(steps int) (*timeseries.Series, error) {
	values, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	return &timeseries.Series{
		Timestamps: timeseries.MonthsAfter(m.last, steps),
		Values:     values,
		Name:       m.name + "_trend",
	}, nil
}

// Residuals returns the in-sample residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the in-sample fitted line.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVal))
	copy(result, m.fittedVal)
	return result
}

// Forecast fits a trend model to series and extrapolates it periods months ahead.
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
