// Package csvfile serves level series from a CSV file on disk.
package csvfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sartorproj/goinflation/source"
	"github.com/sartorproj/goinflation/timeseries"
)

// Store reads series out of one CSV file. In wide form the file has a date column
// and one column per series; in long form (IDColumn set) every row carries a series
// id, a date and a value.
type Store struct {
	path    string
	opts    *timeseries.CSVOptions
	columns map[string]string

	data  []byte            // long form
	table *timeseries.Table // wide form
}

// Option configures a Store.
type Option func(*Store)

// WithCSVOptions overrides the CSV parsing options.
func WithCSVOptions(opts *timeseries.CSVOptions) Option {
	return func(s *Store) {
		s.opts = opts
	}
}

// WithColumns maps series codes to the column (wide) or id (long) they are stored
// under. Codes without an entry are looked up as themselves.
func WithColumns(columns map[string]string) Option {
	return func(s *Store) {
		for code, col := range columns {
			s.columns[code] = col
		}
	}
}

// Open reads the file at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:    path,
		opts:    timeseries.DefaultCSVOptions(),
		columns: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if s.opts.IDColumn != "" {
		s.data = data
		return s, nil
	}

	table, err := timeseries.LoadTableCSV(bytes.NewReader(data), s.opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.table = table
	return s, nil
}

// Fetch returns the series stored for code, restricted to [start, end].
func (s *Store) Fetch(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := code
	if col, ok := s.columns[code]; ok {
		key = col
	}

	var series *timeseries.Series
	if s.table != nil {
		col, ok := s.table.Column(key)
		if !ok {
			return nil, fmt.Errorf("%s: no column %q for series %s", s.path, key, code)
		}
		series = col.Dense()
	} else {
		opts := *s.opts
		opts.IDFilter = key
		loaded, err := timeseries.LoadCSVFromReader(bytes.NewReader(s.data), &opts)
		if err != nil {
			return nil, fmt.Errorf("%s: series %s: %w", s.path, code, err)
		}
		series = loaded
	}

	series.Name = code
	return source.Between(series, start, end), nil
}
