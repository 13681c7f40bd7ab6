package timeseries

import "errors"

// Errors returned by the transforms and forecasters. Callers classify failures with
// errors.Is; the returned errors wrap these with the offending detail.
var (
	// ErrInsufficientData is returned when an operation has fewer points than it needs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateFit is returned when a least-squares fit is undetermined.
	ErrDegenerateFit = errors.New("degenerate fit")

	// ErrAlignmentMismatch is returned when series cannot share a monthly axis.
	ErrAlignmentMismatch = errors.New("alignment mismatch")

	// ErrInvalidArgument is returned for out-of-range parameters such as a window of 1.
	ErrInvalidArgument = errors.New("invalid argument")
)
