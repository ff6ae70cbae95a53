package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the per-document failure taxonomy. Every condition is
// caught at the per-document boundary; none aborts the run.
var (
	// ErrUnknownSchema indicates a document matching neither known schema.
	// Terminal, non-retryable skip for that file.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrNoAuthors indicates that zero authors resolved for a document.
	// Article construction aborts; counted separately from generic errors.
	ErrNoAuthors = errors.New("no authors found")

	// ErrMissingSectionHeading indicates a body section with no heading,
	// surfaced during segmentation.
	ErrMissingSectionHeading = errors.New("body section has no heading")

	// ErrInvalidInput indicates that input data is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// ExternalAPIError provides details about a geoparsing service error.
type ExternalAPIError struct {
	Parser     Parser
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Parser, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(parser Parser, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Parser:     parser,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
