// Package errors provides standardized error types and helpers for the KeystoneBible codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownScope indicates a scope identifier the catalog does not define
	ErrUnknownScope = errors.New("unknown scope")
	// ErrEmptyScope indicates a scope that resolves to zero verses
	ErrEmptyScope = errors.New("empty scope")
	// ErrIndexOutOfRange indicates a verse index outside the sequence bounds
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTranslationUnavailable indicates no source could supply a verse text
	ErrTranslationUnavailable = errors.New("translation unavailable")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "scope", "psalm", "job")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnknownScopeError represents a scope lookup against an identifier the
// catalog does not define
type UnknownScopeError struct {
	ScopeID string // Scope identifier that failed to resolve
	Err     error  // Underlying error, if any
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown scope: %s", e.ScopeID)
}

func (e *UnknownScopeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnknownScope
}

// EmptyScopeError represents a scope that resolved but contains no verses
type EmptyScopeError struct {
	ScopeID string // Scope identifier that resolved to zero verses
	Err     error  // Underlying error, if any
}

func (e *EmptyScopeError) Error() string {
	return fmt.Sprintf("scope %s contains no verses", e.ScopeID)
}

func (e *EmptyScopeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrEmptyScope
}

// IndexOutOfRangeError represents an access outside a verse sequence's bounds
type IndexOutOfRangeError struct {
	Index int   // Requested index
	Count int   // Number of verses in the sequence
	Err   error // Underlying error, if any
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("verse index %d out of range [0,%d)", e.Index, e.Count)
}

func (e *IndexOutOfRangeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrIndexOutOfRange
}

// LookupError represents a failed verse text lookup against a named source
type LookupError struct {
	Source string // Source that failed (e.g., "sefaria", "bible-api", "offline")
	Ref    string // Canonical verse reference being looked up
	Err    error  // Underlying error
}

func (e *LookupError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s lookup failed for %s: %v", e.Source, e.Ref, e.Err)
	}
	return fmt.Sprintf("%s lookup failed: %v", e.Source, e.Err)
}

func (e *LookupError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrTranslationUnavailable
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "reference", "OSIS", "scopes YAML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewUnknownScope creates an UnknownScopeError
func NewUnknownScope(scopeID string) *UnknownScopeError {
	return &UnknownScopeError{
		ScopeID: scopeID,
	}
}

// NewEmptyScope creates an EmptyScopeError
func NewEmptyScope(scopeID string) *EmptyScopeError {
	return &EmptyScopeError{
		ScopeID: scopeID,
	}
}

// NewIndexOutOfRange creates an IndexOutOfRangeError
func NewIndexOutOfRange(index, count int) *IndexOutOfRangeError {
	return &IndexOutOfRangeError{
		Index: index,
		Count: count,
	}
}

// NewLookup creates a LookupError
func NewLookup(source, ref string, err error) *LookupError {
	return &LookupError{
		Source: source,
		Ref:    ref,
		Err:    err,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
