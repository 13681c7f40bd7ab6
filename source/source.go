// Package source defines where raw level series come from and assembles them into
// an aligned table.
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/goinflation/timeseries"
)

// Source fetches one series by code over [start, end]. A zero end means through
// the latest observation. Implementations return observations in date order.
type Source interface {
	Fetch(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error) {
	return f(ctx, code, start, end)
}

// Request names one category to fetch.
type Request struct {
	Label string
	Code  string
}

// Option configures FetchTable.
type Option func(*fetchOptions)

type fetchOptions struct {
	logger      *zap.Logger
	concurrency int
}

// WithLogger logs each fetch.
func WithLogger(logger *zap.Logger) Option {
	return func(o *fetchOptions) {
		o.logger = logger
	}
}

// WithConcurrency caps the number of fetches in flight. Zero or less means no cap.
func WithConcurrency(n int) Option {
	return func(o *fetchOptions) {
		o.concurrency = n
	}
}

// FetchTable fetches every request concurrently and outer-joins the results on
// month. The first failure cancels the remaining fetches and is returned.
func FetchTable(ctx context.Context, src Source, requests []Request, start, end time.Time, opts ...Option) (*timeseries.Table, error) {
	o := &fetchOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	results := make([]*timeseries.Series, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for i, req := range requests {
		g.Go(func() error {
			began := time.Now()
			s, err := src.Fetch(gctx, req.Code, start, end)
			if err != nil {
				o.logger.Warn("series fetch failed",
					zap.String("label", req.Label),
					zap.String("code", req.Code),
					zap.Error(err))
				return fmt.Errorf("fetch %s (%s): %w", req.Label, req.Code, err)
			}

			out := s.Copy()
			out.Name = req.Label
			results[i] = out

			o.logger.Debug("series fetched",
				zap.String("label", req.Label),
				zap.String("code", req.Code),
				zap.Int("observations", out.Len()),
				zap.Duration("elapsed", time.Since(began)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return timeseries.Align(results...)
}

// Memory is an in-memory Source keyed by code.
type Memory map[string]*timeseries.Series

// Fetch returns a copy of the stored series restricted to [start, end].
func (m Memory) Fetch(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := m[code]
	if !ok {
		return nil, fmt.Errorf("unknown series code %q", code)
	}
	return Between(s, start, end), nil
}

// Between returns a copy of the observations of s dated within [start, end].
// Zero bounds are open.
func Between(s *timeseries.Series, start, end time.Time) *timeseries.Series {
	out := &timeseries.Series{
		Timestamps: []time.Time{},
		Values:     []float64{},
		Name:       s.Name,
	}
	for i, ts := range s.Timestamps {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		out.Timestamps = append(out.Timestamps, ts)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}
