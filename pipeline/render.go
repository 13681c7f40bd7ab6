package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sartorproj/goinflation/timeseries"
)

// TableJSON is a table with one row per month. Absent and non-finite cells are null.
type TableJSON struct {
	Columns []string  `json:"columns"`
	Rows    []RowJSON `json:"rows"`
}

// RowJSON is one month of a TableJSON.
type RowJSON struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

// PointJSON is one dated value.
type PointJSON struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// SpikeJSON is one ranked headline spike.
type SpikeJSON struct {
	Rank  int      `json:"rank"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// SummaryJSON describes the whole headline YoY series.
type SummaryJSON struct {
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// TrendJSON holds the fitted trend line and its forecast.
type TrendJSON struct {
	Slope     *float64    `json:"slope"`
	Intercept *float64    `json:"intercept"`
	RSquared  *float64    `json:"r_squared"`
	Forecast  []PointJSON `json:"forecast"`
}

// AR1JSON holds the fitted AR(1) recurrence, its diagnostics and its forecast.
type AR1JSON struct {
	Coeff        *float64    `json:"coeff"`
	Intercept    *float64    `json:"intercept"`
	Variance     *float64    `json:"variance"`
	Mean         *float64    `json:"mean"`
	Stationary   bool        `json:"stationary"`
	Rank         int         `json:"rank"`
	NObs         int         `json:"n_obs"`
	Lag1ACF      *float64    `json:"lag1_acf"`
	LjungBoxQ    *float64    `json:"ljung_box_q,omitempty"`
	LjungBoxP    *float64    `json:"ljung_box_p,omitempty"`
	DurbinWatson *float64    `json:"durbin_watson,omitempty"`
	Forecast     []PointJSON `json:"forecast"`
}

// ReportJSON is the JSON form of a Report.
type ReportJSON struct {
	Headline    string      `json:"headline"`
	Summary     SummaryJSON `json:"summary"`
	YoY         TableJSON   `json:"yoy"`
	Recent      TableJSON   `json:"recent"`
	RollingMean TableJSON   `json:"rolling_mean"`
	RollingStd  TableJSON   `json:"rolling_std"`
	Window      int         `json:"window"`
	Spikes      []SpikeJSON `json:"spikes"`
	Trend       TrendJSON   `json:"trend"`
	AR1         AR1JSON     `json:"ar1"`
}

// JSON converts the report. Rolling tables cover the last year.
func (r *Report) JSON() *ReportJSON {
	mean, std, window := r.recentRollingTables()

	out := &ReportJSON{
		Headline:    r.Headline.Name,
		Summary: SummaryJSON{
			Mean:   num(r.Summary.Mean),
			Std:    num(r.Summary.Std),
			Median: num(r.Summary.Median),
			Min:    num(r.Summary.Min),
			Max:    num(r.Summary.Max),
		},
		YoY:         tableJSON(r.YoY),
		Recent:      tableJSON(r.Recent),
		RollingMean: tableJSON(mean),
		RollingStd:  tableJSON(std),
		Window:      window,
		Spikes:      make([]SpikeJSON, len(r.Spikes)),
		Trend: TrendJSON{
			Slope:     num(r.TrendModel.Slope),
			Intercept: num(r.TrendModel.Intercept),
			RSquared:  num(r.TrendModel.RSquared),
			Forecast:  pointsJSON(r.Trend),
		},
	}
	for i, s := range r.Spikes {
		out.Spikes[i] = SpikeJSON{Rank: s.Rank, Date: s.Time.Format(dateLayout), Value: num(s.Value)}
	}

	if sum := r.AR1Summary; sum != nil {
		out.AR1 = AR1JSON{
			Coeff:      num(sum.Coeff),
			Intercept:  num(sum.Intercept),
			Variance:   num(sum.Variance),
			Mean:       num(sum.Mean),
			Stationary: sum.Stationary,
			Rank:       sum.Rank,
			NObs:       sum.NObs,
			Lag1ACF:    num(sum.Lag1ACF),
		}
		if lb := sum.Residuals.LjungBox; lb != nil {
			out.AR1.LjungBoxQ = num(lb.Q)
			out.AR1.LjungBoxP = num(lb.PValue)
		}
		out.AR1.DurbinWatson = num(sum.Residuals.DurbinWatson)
	}
	out.AR1.Forecast = pointsJSON(r.AR1)
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.JSON())
}

// WriteText writes a plain-text summary of the report.
func (r *Report) WriteText(w io.Writer) error {
	mean, std, window := r.recentRollingTables()

	first, last := r.Headline.Timestamps[0], r.Headline.Timestamps[r.Headline.Len()-1]
	p := &printer{w: w}
	p.printf("Inflation report: %s YoY %s to %s (%d months)\n\n",
		r.Headline.Name, first.Format("2006-01"), last.Format("2006-01"), r.Headline.Len())
	sum := r.Summary
	p.printf("Headline YoY (%%): mean %s, std %s, median %s, min %s, max %s\n\n",
		format(sum.Mean), format(sum.Std), format(sum.Median), format(sum.Min), format(sum.Max))

	p.printf("Latest YoY inflation (%%):\n")
	p.table(r.Recent)

	p.printf("\nRolling %d-month mean of YoY, last %d months:\n", window, timeseries.YoYLag)
	p.table(mean)
	p.printf("\nRolling %d-month std of YoY, last %d months:\n", window, timeseries.YoYLag)
	p.table(std)

	p.printf("\nTop %d %s YoY spikes:\n", len(r.Spikes), r.Headline.Name)
	for _, s := range r.Spikes {
		p.printf("  %d. %s  %s\n", s.Rank, s.Time.Format("2006-01"), format(s.Value))
	}

	tm := r.TrendModel
	p.printf("\nTrend forecast (slope %s per month, R² %s):\n", format(tm.Slope), format(tm.RSquared))
	p.points(r.Trend)

	if sum := r.AR1Summary; sum != nil {
		p.printf("\nAR(1) forecast (y[t] = %s*y[t-1] + %s, ", format(sum.Coeff), format(sum.Intercept))
		if sum.Stationary {
			p.printf("converges to %s):\n", format(sum.Mean))
		} else {
			p.printf("non-stationary):\n")
		}
	} else {
		p.printf("\nAR(1) forecast:\n")
	}
	p.points(r.AR1)

	return p.err
}

// recentRollingTables lays the last year of rolling statistics out on the final
// months of the YoY index.
func (r *Report) recentRollingTables() (mean, std *timeseries.Table, window int) {
	index := r.YoY.Tail(timeseries.YoYLag).Index
	mean = &timeseries.Table{Index: index}
	std = &timeseries.Table{Index: index}
	for _, roll := range r.Rolling {
		window = roll.Stats.Window
		mean.Columns = append(mean.Columns, reindex(roll.Label, roll.Stats.Mean, index))
		std.Columns = append(std.Columns, reindex(roll.Label, roll.Stats.Std, index))
	}
	return mean, std, window
}

func reindex(label string, s *timeseries.Sparse, index []time.Time) *timeseries.Sparse {
	byMonth := make(map[time.Time]float64, s.Count())
	for i, ts := range s.Timestamps {
		if v, ok := s.At(i); ok {
			byMonth[ts] = v
		}
	}
	out := timeseries.NewSparse(label, index)
	for i, ts := range index {
		if v, ok := byMonth[ts]; ok {
			out.Set(i, v)
		}
	}
	return out
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(t *timeseries.Table) {
	if p.err != nil {
		return
	}
	if t.Len() == 0 {
		p.printf("  (no data)\n")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"month"}, t.Labels()...)
	fmt.Fprintf(tw, "  %s\t\n", strings.Join(header, "\t"))
	for i, ts := range t.Index {
		cells := []string{ts.Format("2006-01")}
		for _, c := range t.Columns {
			cell := "-"
			if v, ok := c.At(i); ok {
				cell = format(v)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintf(tw, "  %s\t\n", strings.Join(cells, "\t"))
	}
	p.err = tw.Flush()
}

func (p *printer) points(s *timeseries.Series) {
	for i, ts := range s.Timestamps {
		p.printf("  %s  %s\n", ts.Format("2006-01"), format(s.Values[i]))
	}
}

func format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func tableJSON(t *timeseries.Table) TableJSON {
	out := TableJSON{Columns: t.Labels(), Rows: make([]RowJSON, t.Len())}
	for i, ts := range t.Index {
		row := RowJSON{Date: ts.Format(dateLayout), Values: make([]*float64, len(t.Columns))}
		for j, c := range t.Columns {
			if v, ok := c.At(i); ok {
				row.Values[j] = num(v)
			}
		}
		out.Rows[i] = row
	}
	return out
}

func pointsJSON(s *timeseries.Series) []PointJSON {
	out := make([]PointJSON, s.Len())
	for i, ts := range s.Timestamps {
		out[i] = PointJSON{Date: ts.Format(dateLayout), Value: num(s.Values[i])}
	}
	return out
}
