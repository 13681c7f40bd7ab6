package pipeline

import (
	"context"
	"fmt"

	"github.com/sartorproj/goinflation/ar1"
	"github.com/sartorproj/goinflation/source"
	"github.com/sartorproj/goinflation/stats"
	"github.com/sartorproj/goinflation/timeseries"
	"github.com/sartorproj/goinflation/trend"
)

// Rolling holds the rolling statistics of one category's YoY series.
type Rolling struct {
	Label string
	Stats *stats.RollingStats
}

// Summary describes the whole headline YoY series.
type Summary struct {
	Mean   float64
	Std    float64
	Median float64
	Min    float64
	Max    float64
}

func summarize(s *timeseries.Series) Summary {
	return Summary{Mean: s.Mean(), Std: s.Std(), Median: s.Median(), Min: s.Min(), Max: s.Max()}
}

// Report is the result of one analysis.
type Report struct {
	Levels   *timeseries.Table  // Aligned CPI levels
	YoY      *timeseries.Table  // YoY inflation (%), rows with no observation removed
	Headline *timeseries.Series // YoY inflation of the headline category
	Summary  Summary            // Of Headline
	Recent   *timeseries.Table  // Last Config.Recent rows of YoY
	Rolling  []Rolling          // One entry per category, in config order
	Spikes   []stats.Spike

	Trend      *timeseries.Series
	TrendModel *trend.Model

	AR1        *timeseries.Series
	AR1Model   *ar1.Model
	AR1Summary *ar1.Summary
}

// Analyze computes the report for an aligned table of levels. It does no I/O and
// the report does not share storage with levels.
func Analyze(levels *timeseries.Table, cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := levels.Column(cfg.Headline); !ok {
		return nil, fmt.Errorf("%w: headline %q is not a column of the levels table",
			timeseries.ErrInvalidArgument, cfg.Headline)
	}

	yoy, err := levels.YoY()
	if err != nil {
		return nil, fmt.Errorf("year-over-year: %w", err)
	}
	if cfg.DropIncomplete {
		yoy = yoy.DropIncomplete()
	} else {
		yoy = yoy.DropEmpty()
	}

	col, _ := yoy.Column(cfg.Headline)
	headline := col.Dense()
	if headline.Len() == 0 {
		return nil, fmt.Errorf("%w: no year-over-year values for %q",
			timeseries.ErrInsufficientData, cfg.Headline)
	}

	report := &Report{
		Levels:   levels.Copy(),
		YoY:      yoy,
		Headline: headline,
		Summary:  summarize(headline),
		Recent:   yoy.Tail(cfg.Recent),
		Rolling:  make([]Rolling, 0, len(yoy.Columns)),
	}

	for _, c := range yoy.Columns {
		rs, err := stats.Rolling(c.Dense(), cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("rolling %s: %w", c.Name, err)
		}
		report.Rolling = append(report.Rolling, Rolling{Label: c.Name, Stats: rs})
	}

	if report.Spikes, err = stats.TopSpikes(headline, cfg.TopK); err != nil {
		return nil, fmt.Errorf("spikes: %w", err)
	}

	if report.Trend, report.TrendModel, err = trend.Forecast(headline, cfg.Periods); err != nil {
		return nil, fmt.Errorf("trend forecast: %w", err)
	}

	if report.AR1, report.AR1Model, err = ar1.Forecast(headline, cfg.Periods); err != nil {
		return nil, fmt.Errorf("AR(1) forecast: %w", err)
	}
	report.AR1Summary = report.AR1Model.Summary()

	return report, nil
}

// Run fetches every configured category from src and analyzes the result.
func Run(ctx context.Context, src source.Source, cfg *Config, opts ...source.Option) (*Report, error) {
	levels, err := Fetch(ctx, src, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return Analyze(levels, cfg)
}

// Fetch retrieves the configured categories as an aligned table of levels.
func Fetch(ctx context.Context, src source.Source, cfg *Config, opts ...source.Option) (*timeseries.Table, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, end, err := cfg.Range()
	if err != nil {
		return nil, err
	}
	return source.FetchTable(ctx, src, cfg.Requests(), start, end, opts...)
}
