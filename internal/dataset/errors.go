package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoNumericColumn indicates the table has no column of numeric type.
	ErrNoNumericColumn = errors.New("no numeric column found")
	// ErrColumnNotFound indicates the requested column is absent from the header.
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnNotNumeric indicates the requested column is not predominantly numeric.
	ErrColumnNotNumeric = errors.New("column is not numeric")
	// ErrUnsupported indicates a file format that cannot be ingested.
	ErrUnsupported = errors.New("unsupported file format")
)

// IngestionError reports a source file that could not be parsed.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	if e == nil {
		return "ingestion failed"
	}
	if e.Path != "" {
		return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot read input: %v", e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
