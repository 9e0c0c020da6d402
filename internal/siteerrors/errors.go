// Package siteerrors provides a lightweight structured error type (SiteError)
// for category-based classification across the generation pipeline and CLI.
package siteerrors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a generation error for classification
type ErrorCategory string

const (
	// User-facing content and configuration errors
	CategoryValidation ErrorCategory = "validation"
	CategorySlug       ErrorCategory = "slug"
	CategoryConfig     ErrorCategory = "config"

	// Rendering and output errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External collaborator errors
	CategorySource   ErrorCategory = "source"
	CategoryInternal ErrorCategory = "internal"
)

// SiteError is a structured error with category and context. Every error in
// the taxonomy aborts the whole generation run; there is no partial-success
// mode, so no severity or retryability dimension is carried.
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SiteError
type ContextFields map[string]any

// Error implements the error interface
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteError
func New(category ErrorCategory, message string) *SiteError {
	return &SiteError{Category: category, Message: message}
}

// Wrap creates a new SiteError that wraps an existing error
func Wrap(err error, category ErrorCategory, message string) *SiteError {
	return &SiteError{Category: category, Message: message, Cause: err}
}

// IsCategory checks if an error belongs to a specific category. The error
// chain is unwrapped, so a SiteError wrapped by fmt.Errorf still classifies.
func IsCategory(err error, category ErrorCategory) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error chain, or returns
// CategoryInternal if no SiteError is found.
func GetCategory(err error) ErrorCategory {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryInternal
}
