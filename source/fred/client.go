// Package fred fetches observation series from the FRED API of the Federal
// Reserve Bank of St. Louis.
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sartorproj/goinflation/timeseries"
)

const (
	// DefaultBaseURL is the base URL for the FRED API.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is requests per second. FRED allows 120 per minute.
	DefaultRateLimit = 2

	dateLayout = "2006-01-02"
)

// ErrMissingAPIKey is returned by Fetch when the client has no API key.
var ErrMissingAPIKey = errors.New("FRED API key is required")

// Client is a FRED API client. It satisfies source.Source.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit in requests per second. Values below 1
// keep the default limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new FRED API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("FRED API request",
		zap.String("endpoint", path),
		zap.String("series_id", params.Get("series_id")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		var fe errorResponse
		if json.Unmarshal(body, &fe) == nil && fe.ErrorMessage != "" {
			msg = fe.ErrorMessage
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetObservations retrieves the observations of a series. Zero bounds are left
// to the API defaults.
func (c *Client) GetObservations(ctx context.Context, seriesID string, start, end time.Time) (*ObservationsResponse, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	if !start.IsZero() {
		params.Set("observation_start", start.Format(dateLayout))
	}
	if !end.IsZero() {
		params.Set("observation_end", end.Format(dateLayout))
	}

	var result ObservationsResponse
	if err := c.get(ctx, "/series/observations", params, &result); err != nil {
		return nil, err
	}

	for i := range result.Observations {
		t, err := time.Parse(dateLayout, result.Observations[i].DateStr)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad observation date %q: %w", seriesID, result.Observations[i].DateStr, err)
		}
		result.Observations[i].Date = t
	}

	return &result, nil
}

// Fetch returns the series as a timeseries.Series named by its code. Missing
// observations are dropped.
func (c *Client) Fetch(ctx context.Context, code string, start, end time.Time) (*timeseries.Series, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	resp, err := c.GetObservations(ctx, code, start, end)
	if err != nil {
		return nil, err
	}

	series := &timeseries.Series{
		Timestamps: make([]time.Time, 0, len(resp.Observations)),
		Values:     make([]float64, 0, len(resp.Observations)),
		Name:       code,
	}
	skipped := 0
	for _, obs := range resp.Observations {
		v, err := strconv.ParseFloat(strings.TrimSpace(obs.Value), 64)
		if err != nil {
			skipped++
			continue
		}
		series.Timestamps = append(series.Timestamps, obs.Date)
		series.Values = append(series.Values, v)
	}

	if skipped > 0 {
		c.logger.Debug("missing observations skipped",
			zap.String("series_id", code),
			zap.Int("skipped", skipped))
	}
	return series, nil
}
