package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goinflation/timeseries"
)

// DefaultWindow is the trailing window, in months, used for rolling statistics.
const DefaultWindow = 12

// RollingStats holds trailing-window statistics aligned to the input's timestamps.
// Slots before the first full window are absent in both series.
type RollingStats struct {
	Mean   *timeseries.Sparse
	Std    *timeseries.Sparse
	Window int
}

// Rolling computes the trailing mean and sample standard deviation (N-1 denominator)
// over every window of the given size. A window must cover exactly window consecutive
// calendar months; where the series skips a month, windows spanning the gap are
// absent. A series shorter than the window yields all-absent output. Windows
// containing NaN produce NaN.
func Rolling(series *timeseries.Series, window int) (*RollingStats, error) {
	if window < 2 {
		return nil, fmt.Errorf("%w: rolling window must be at least 2, got %d", timeseries.ErrInvalidArgument, window)
	}

	rs := &RollingStats{
		Mean:   timeseries.NewSparse(series.Name+"_rolling_mean", series.Timestamps),
		Std:    timeseries.NewSparse(series.Name+"_rolling_std", series.Timestamps),
		Window: window,
	}

	for end := window; end <= series.Len(); end++ {
		if timeseries.MonthsBetween(series.Timestamps[end-window], series.Timestamps[end-1]) != window-1 {
			continue
		}
		w := series.Values[end-window : end]
		mean, std := windowStats(w)
		rs.Mean.Set(end-1, mean)
		rs.Std.Set(end-1, std)
	}
	return rs, nil
}

// windowStats returns the mean and sample standard deviation of w.
// A window of identical values has exactly zero spread.
func windowStats(w []float64) (mean, std float64) {
	identical := true
	for _, v := range w[1:] {
		if v != w[0] {
			identical = false
			break
		}
	}
	if identical && !math.IsNaN(w[0]) && !math.IsInf(w[0], 0) {
		return w[0], 0
	}
	return stat.Mean(w, nil), stat.StdDev(w, nil)
}
