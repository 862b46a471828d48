package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// PipelineError provides structured information about a failed stage.
type PipelineError struct {
	Stage   string // Stage that failed (e.g., "purity", "network")
	Drug    string
	Year    int    // Year being processed (if applicable)
	Country string // Country being processed (if applicable)
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.Drug != "" {
		b.WriteString(" " + e.Drug)
	}
	if e.Year != 0 {
		fmt.Fprintf(&b, " %d", e.Year)
	}
	if e.Country != "" {
		fmt.Fprintf(&b, " (country %s)", e.Country)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	return b.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *PipelineError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building PipelineErrors.
type ErrorBuilder struct {
	err PipelineError
}

// NewError creates a new error builder for stage.
func NewError(stage string) *ErrorBuilder {
	return &ErrorBuilder{err: PipelineError{Stage: stage}}
}

// Drug sets the drug being processed.
func (b *ErrorBuilder) Drug(name string) *ErrorBuilder {
	b.err.Drug = name
	return b
}

// Year sets the year being processed.
func (b *ErrorBuilder) Year(year int) *ErrorBuilder {
	b.err.Year = year
	return b
}

// Country sets the country being processed.
func (b *ErrorBuilder) Country(name string) *ErrorBuilder {
	b.err.Country = name
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed PipelineError.
func (b *ErrorBuilder) Build() *PipelineError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// StageOf returns the stage of the first PipelineError in err's chain.
func StageOf(err error) (string, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage, true
	}
	return "", false
}
