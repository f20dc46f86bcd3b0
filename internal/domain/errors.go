package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed search request. The whole request fails.
	ErrValidation = errors.New("validation failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidContentDate signals a document whose metadata date cannot be parsed.
	ErrInvalidContentDate = errors.New("invalid content date")

	// ErrUpstream signals a failing collaborator (query encoder or document store).
	ErrUpstream = errors.New("upstream error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrDocumentStore signals a document store failure.
	ErrDocumentStore = errors.New("document store error")
)

// DimensionMismatchError reports a query/document embedding of the wrong length.
// It matches both ErrVectorDimMismatch and ErrValidation.
type DimensionMismatchError struct {
	DocumentID int64 // 0 when the query embedding itself is wrong
	Expected   int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	if e.DocumentID != 0 {
		return fmt.Sprintf("%s: document %d has dimension %d, query has %d",
			ErrVectorDimMismatch.Error(), e.DocumentID, e.Got, e.Expected)
	}
	return fmt.Sprintf("%s: expected %d, got %d", ErrVectorDimMismatch.Error(), e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrVectorDimMismatch }

// Is lets errors.Is(err, ErrValidation) succeed for dimension mismatches.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrValidation }

// NewDimensionMismatch creates a dimension mismatch error for a query embedding.
func NewDimensionMismatch(expected, got int) error {
	return &DimensionMismatchError{Expected: expected, Got: got}
}

// ContentDateError is a per-document data issue. It never fails a query.
type ContentDateError struct {
	DocumentID int64
	Raw        any
	Err        error
}

func (e *ContentDateError) Error() string {
	msg := fmt.Sprintf("%s: document %d date %v", ErrInvalidContentDate.Error(), e.DocumentID, e.Raw)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContentDateError) Unwrap() error { return ErrInvalidContentDate }

// Validationf builds an ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
