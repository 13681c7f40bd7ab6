package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goinflation/source"
	"github.com/sartorproj/goinflation/timeseries"
)

var jan2020 = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func compound(n int, base, rate float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = base * math.Pow(1+rate, float64(i))
	}
	return values
}

func singleCategory() *Config {
	cfg := DefaultConfig()
	cfg.Categories = []Category{{Label: "All Items", Code: "CPIAUCSL"}}
	return cfg
}

func TestAnalyzeCompoundGrowth(t *testing.T) {
	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)

	report, err := Analyze(levels, singleCategory())
	require.NoError(t, err)

	want := (math.Pow(1.01, 12) - 1) * 100
	require.Equal(t, 12, report.Headline.Len())
	for _, v := range report.Headline.Values {
		assert.InDelta(t, want, v, 1e-9)
	}
	assert.Equal(t, 12, report.YoY.Len(), "leading months without a prior year are dropped")
	assert.Equal(t, 5, report.Recent.Len())

	require.Len(t, report.Trend.Values, 12)
	for _, v := range report.Trend.Values {
		assert.InDelta(t, 12.6825, v, 1e-3)
	}
	assert.Equal(t, time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), report.Trend.Timestamps[0])

	require.Len(t, report.AR1.Values, 12)
	for _, v := range report.AR1.Values {
		assert.InDelta(t, 12.6825, v, 1e-3)
	}

	require.Len(t, report.Spikes, 3)
	assert.Equal(t, 1, report.Spikes[0].Rank)

	require.Len(t, report.Rolling, 1)
	_, last, ok := report.Rolling[0].Stats.Std.Last()
	require.True(t, ok)
	assert.InDelta(t, 0, last, 1e-9)
}

func TestAnalyzeMultipleCategories(t *testing.T) {
	levels, err := timeseries.Align(
		timeseries.NewMonthly("All Items", jan2020, compound(30, 100, 0.003)),
		timeseries.NewMonthly("Energy", jan2020.AddDate(0, 6, 0), compound(24, 50, 0.01)),
	)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Categories = []Category{
		{Label: "All Items", Code: "CPIAUCSL"},
		{Label: "Energy", Code: "CUSR0000SEHC"},
	}

	report, err := Analyze(levels, cfg)
	require.NoError(t, err)
	assert.Equal(t, 18, report.YoY.Len())
	assert.Equal(t, []string{"All Items", "Energy"}, report.YoY.Labels())

	energy, _ := report.YoY.Column("Energy")
	_, present := energy.At(0)
	assert.False(t, present, "energy has no prior year in the first YoY month")

	cfg.DropIncomplete = true
	complete, err := Analyze(levels, cfg)
	require.NoError(t, err)
	assert.Equal(t, 12, complete.YoY.Len())
	assert.Equal(t, 12, complete.Headline.Len())
}

func TestAnalyzeHeadlineSummary(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 100
		if i >= 12 {
			values[i] += float64(i - 11)
		}
	}
	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, values))
	require.NoError(t, err)

	report, err := Analyze(levels, singleCategory())
	require.NoError(t, err)

	sum := report.Summary
	assert.InDelta(t, 6.5, sum.Mean, 1e-9)
	assert.InDelta(t, 6.5, sum.Median, 1e-9)
	assert.InDelta(t, 1, sum.Min, 1e-9)
	assert.InDelta(t, 12, sum.Max, 1e-9)
	assert.InDelta(t, math.Sqrt(13), sum.Std, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))
	assert.Contains(t, buf.String(), "Headline YoY (%): mean 6.50, std 3.61, median 6.50, min 1.00, max 12.00")

	decoded := report.JSON()
	require.NotNil(t, decoded.Summary.Max)
	assert.InDelta(t, 12, *decoded.Summary.Max, 1e-9)
}

func TestAnalyzeDoesNotShareLevels(t *testing.T) {
	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)

	report, err := Analyze(levels, singleCategory())
	require.NoError(t, err)

	levels.Columns[0].Set(0, -1)
	levels.Index[0] = jan2020.AddDate(-1, 0, 0)

	col, ok := report.Levels.Column("All Items")
	require.True(t, ok)
	v, present := col.At(0)
	require.True(t, present)
	assert.InDelta(t, 100, v, 1e-9)
	assert.Equal(t, jan2020, report.Levels.Index[0])
}

func TestAnalyzeErrors(t *testing.T) {
	short, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(12, 100, 0.01)))
	require.NoError(t, err)
	_, err = Analyze(short, singleCategory())
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	other, err := timeseries.Align(timeseries.NewMonthly("Energy", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)
	_, err = Analyze(other, singleCategory())
	assert.ErrorIs(t, err, timeseries.ErrInvalidArgument)

	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)
	cfg := singleCategory()
	cfg.Window = 1
	_, err = Analyze(levels, cfg)
	assert.ErrorIs(t, err, timeseries.ErrInvalidArgument)
}

func TestRun(t *testing.T) {
	mem := source.Memory{
		"CPIAUCSL":      timeseries.NewMonthly("CPIAUCSL", jan2020, compound(36, 250, 0.004)),
		"CUSR0000SAF11": timeseries.NewMonthly("CUSR0000SAF11", jan2020, compound(36, 280, 0.005)),
		"CUSR0000SEHC":  timeseries.NewMonthly("CUSR0000SEHC", jan2020, compound(36, 320, 0.002)),
		"CUSR0000SEEA":  timeseries.NewMonthly("CUSR0000SEEA", jan2020, compound(36, 150, 0.003)),
	}

	report, err := Run(context.Background(), mem, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"All Items", "Food & Beverages", "Energy", "Housing"}, report.Levels.Labels())
	assert.Equal(t, 24, report.YoY.Len())
	assert.Len(t, report.Rolling, 4)
	assert.Equal(t, "All Items", report.Headline.Name)
}

func TestRunRange(t *testing.T) {
	mem := source.Memory{"CPIAUCSL": timeseries.NewMonthly("CPIAUCSL", jan2020, compound(36, 250, 0.004))}
	cfg := singleCategory()
	cfg.Start = "2021-01-01"

	levels, err := Fetch(context.Background(), mem, cfg)
	require.NoError(t, err)
	assert.Equal(t, 24, levels.Len())

	cfg.End = "2020-06-01"
	_, err = Fetch(context.Background(), mem, cfg)
	assert.ErrorIs(t, err, timeseries.ErrInvalidArgument)
}

func TestWriteText(t *testing.T) {
	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)
	report, err := Analyze(levels, singleCategory())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Inflation report: All Items YoY 2021-01 to 2021-12 (12 months)")
	assert.Contains(t, out, "Latest YoY inflation (%):")
	assert.Contains(t, out, "Top 3 All Items YoY spikes:")
	assert.Contains(t, out, "12.68")
	assert.Contains(t, out, "2022-12")
}

func TestWriteJSON(t *testing.T) {
	levels, err := timeseries.Align(timeseries.NewMonthly("All Items", jan2020, compound(24, 100, 0.01)))
	require.NoError(t, err)
	report, err := Analyze(levels, singleCategory())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "All Items", decoded.Headline)
	assert.Len(t, decoded.YoY.Rows, 12)
	assert.Len(t, decoded.Trend.Forecast, 12)
	assert.Len(t, decoded.AR1.Forecast, 12)
	assert.Len(t, decoded.RollingMean.Rows, 12)
	assert.Equal(t, "2022-01-01", decoded.AR1.Forecast[0].Date)
	require.NotNil(t, decoded.AR1.Forecast[0].Value)
	assert.InDelta(t, 12.6825, *decoded.AR1.Forecast[0].Value, 1e-3)

	// Only the final rolling month has a full window.
	assert.Nil(t, decoded.RollingMean.Rows[0].Values[0])
	assert.NotNil(t, decoded.RollingMean.Rows[11].Values[0])
}

func TestNonFiniteJSON(t *testing.T) {
	assert.Nil(t, num(math.NaN()))
	assert.Nil(t, num(math.Inf(1)))
	require.NotNil(t, num(1.5))
	assert.Equal(t, 1.5, *num(1.5))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inflation.yaml")
	content := `
categories:
  - label: Headline
    code: CPIAUCSL
  - label: Core
    code: CPILFESL
headline: Headline
start: "2010-01-01"
window: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Categories, 2)
	assert.Equal(t, "Headline", cfg.Headline)
	assert.Equal(t, 6, cfg.Window)
	assert.Equal(t, 3, cfg.TopK, "unset keys keep their defaults")
	assert.Equal(t, map[string]string{"CPIAUCSL": "Headline", "CPILFESL": "Core"}, cfg.Codes())

	start, end, err := cfg.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, end.IsZero())
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"window too small", "window: 1\n"},
		{"unknown headline", "headline: Core\n"},
		{"bad date", "start: 2010/01/01\n"},
		{"duplicate labels", "categories:\n  - {label: A, code: X}\n  - {label: A, code: Y}\nheadline: A\n"},
		{"empty code", "categories:\n  - {label: A}\nheadline: A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "inflation.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, timeseries.ErrInvalidArgument)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Requests(), 4)
	assert.Equal(t, "CPIAUCSL", cfg.Requests()[0].Code)
}
