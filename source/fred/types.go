package fred

import (
	"fmt"
	"time"
)

// Observation is one row of the series/observations response. Value is kept as
// text because FRED reports missing observations as ".".
type Observation struct {
	DateStr       string    `json:"date"`
	Value         string    `json:"value"`
	RealtimeStart string    `json:"realtime_start"`
	RealtimeEnd   string    `json:"realtime_end"`
	Date          time.Time `json:"-"`
}

// ObservationsResponse is the body of /series/observations.
type ObservationsResponse struct {
	ObservationStart string        `json:"observation_start"`
	ObservationEnd   string        `json:"observation_end"`
	Units            string        `json:"units"`
	Count            int           `json:"count"`
	Observations     []Observation `json:"observations"`
}

// errorResponse is the body FRED sends with a non-200 status.
type errorResponse struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// APIError represents an error from the FRED API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FRED API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned when the client-side limiter cannot grant a request
// before the context ends.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("FRED rate limit wait: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}
