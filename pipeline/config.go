package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/goinflation/source"
	"github.com/sartorproj/goinflation/stats"
	"github.com/sartorproj/goinflation/timeseries"
)

const dateLayout = "2006-01-02"

// Category is one CPI component to fetch and analyze.
type Category struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Code  string `yaml:"code" json:"code" validate:"required"`
}

// Config holds configuration for an inflation report.
type Config struct {
	Categories     []Category `yaml:"categories" json:"categories" validate:"required,min=1,unique=Label,dive"`
	Headline       string     `yaml:"headline" json:"headline" validate:"required"`                             // Label the spikes and forecasts run on
	Start          string     `yaml:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`              // First month fetched (default: 2000-01-01)
	End            string     `yaml:"end" json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`        // Last month fetched (default: latest)
	Window         int        `yaml:"window" json:"window" validate:"min=2"`                                    // Rolling window in months (default: 12)
	TopK           int        `yaml:"top_k" json:"top_k" validate:"min=1"`                                      // Number of spikes (default: 3)
	Periods        int        `yaml:"periods" json:"periods" validate:"min=1"`                                  // Forecast horizon in months (default: 12)
	Recent         int        `yaml:"recent" json:"recent" validate:"min=0"`                                    // Latest YoY rows reported (default: 5)
	DropIncomplete bool       `yaml:"drop_incomplete" json:"drop_incomplete"`                                   // Keep only months every category observes
}

// DefaultConfig returns the default report configuration: headline CPI and three
// components from FRED, starting January 2000.
func DefaultConfig() *Config {
	return &Config{
		Categories: []Category{
			{Label: "All Items", Code: "CPIAUCSL"},
			{Label: "Food & Beverages", Code: "CUSR0000SAF11"},
			{Label: "Energy", Code: "CUSR0000SEHC"},
			{Label: "Housing", Code: "CUSR0000SEEA"},
		},
		Headline: "All Items",
		Start:    "2000-01-01",
		Window:   stats.DefaultWindow,
		TopK:     stats.DefaultTopK,
		Periods:  12,
		Recent:   5,
	}
}

// LoadConfig reads a YAML config file. Keys the file leaves out keep their
// DefaultConfig values; a categories list replaces the default one.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints and that the headline names a category.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", timeseries.ErrInvalidArgument, err)
	}
	for _, cat := range c.Categories {
		if cat.Label == c.Headline {
			return nil
		}
	}
	return fmt.Errorf("%w: headline %q is not a configured category", timeseries.ErrInvalidArgument, c.Headline)
}

// Requests returns the categories in fetch order.
func (c *Config) Requests() []source.Request {
	reqs := make([]source.Request, len(c.Categories))
	for i, cat := range c.Categories {
		reqs[i] = source.Request{Label: cat.Label, Code: cat.Code}
	}
	return reqs
}

// Codes maps each category code to its label.
func (c *Config) Codes() map[string]string {
	codes := make(map[string]string, len(c.Categories))
	for _, cat := range c.Categories {
		codes[cat.Code] = cat.Label
	}
	return codes
}

// Range returns the parsed start and end dates. Empty values are zero.
func (c *Config) Range() (start, end time.Time, err error) {
	if c.Start != "" {
		if start, err = time.Parse(dateLayout, c.Start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", timeseries.ErrInvalidArgument, err)
		}
	}
	if c.End != "" {
		if end, err = time.Parse(dateLayout, c.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", timeseries.ErrInvalidArgument, err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", timeseries.ErrInvalidArgument, c.End, c.Start)
	}
	return start, end, nil
}
