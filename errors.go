package galdex

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPage is returned when the page number is not positive.
	ErrInvalidPage = errors.New("page must be positive")

	// ErrInvalidLimit is returned when the page size is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")
)

// ErrInvalidQuery indicates a filter query rejected at ingress.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidQuery struct {
	cause error
}

func (e *ErrInvalidQuery) Error() string {
	return fmt.Sprintf("invalid query: %v", e.cause)
}

func (e *ErrInvalidQuery) Unwrap() error { return e.cause }
