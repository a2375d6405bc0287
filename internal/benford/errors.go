package benford

import "errors"

var (
	// ErrInsufficientData indicates that no usable values remained after dropping
	// missing or malformed entries.
	ErrInsufficientData = errors.New("insufficient data: no non-missing numeric values")

	// ErrInvalidThreshold indicates a conformance threshold outside (0, 1).
	ErrInvalidThreshold = errors.New("invalid conformance threshold")

	// ErrInvalidValue indicates a value the synthesizer cannot average (NaN or ±Inf)
	// or a digit outside 1..9.
	ErrInvalidValue = errors.New("invalid value")
)
