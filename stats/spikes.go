package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sartorproj/goinflation/timeseries"
)

// DefaultTopK is the number of spikes reported by default.
const DefaultTopK = 3

// Spike is one ranked observation. Rank starts at 1 for the largest value.
type Spike struct {
	Rank  int       `json:"rank"`
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// TopSpikes returns the k largest observations in descending order of value.
// Equal values keep their order in the series. NaN observations cannot be ranked
// and are skipped; when fewer than k remain, all of them are returned.
func TopSpikes(series *timeseries.Series, k int) ([]Spike, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1, got %d", timeseries.ErrInvalidArgument, k)
	}
	if len(series.Timestamps) != len(series.Values) {
		return nil, fmt.Errorf("%w: series %q has %d timestamps for %d values",
			timeseries.ErrInvalidArgument, series.Name, len(series.Timestamps), len(series.Values))
	}

	order := make([]int, 0, series.Len())
	for i, v := range series.Values {
		if !math.IsNaN(v) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return series.Values[order[a]] > series.Values[order[b]]
	})

	if len(order) > k {
		order = order[:k]
	}

	spikes := make([]Spike, len(order))
	for r, i := range order {
		spikes[r] = Spike{
			Rank:  r + 1,
			Time:  series.Timestamps[i],
			Value: series.Values[i],
		}
	}
	return spikes, nil
}

// SpikeSeries converts a ranking back to a series in rank order.
func SpikeSeries(name string, spikes []Spike) *timeseries.Series {
	s := &timeseries.Series{
		Timestamps: make([]time.Time, len(spikes)),
		Values:     make([]float64, len(spikes)),
		Name:       name,
	}
	for i, sp := range spikes {
		s.Timestamps[i] = sp.Time
		s.Values[i] = sp.Value
	}
	return s
}
