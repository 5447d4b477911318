package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeGraph represents graph state errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeExport represents snapshot export errors
	ErrorTypeExport ErrorType = "export"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when a configuration value is invalid
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Graph Errors

// ErrNodeNotFound is returned when an operation references a node id outside
// the graph's arena
type ErrNodeNotFound struct {
	*BaseError
	NodeID int
}

func NewNodeNotFound(nodeID int) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("node not found: %d", nodeID), nil),
		NodeID:    nodeID,
	}
}

// ErrSnapshotNotFound is returned when a snapshot date has no exported files
type ErrSnapshotNotFound struct {
	*BaseError
	Date string
}

func NewSnapshotNotFound(date string) *ErrSnapshotNotFound {
	return &ErrSnapshotNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("snapshot not found: %s", date), nil),
		Date:      date,
	}
}

// Export Errors

// ErrExportFailed is returned when writing a snapshot file fails. The
// in-memory simulation state is unaffected by this error.
type ErrExportFailed struct {
	*BaseError
	Path string
}

func NewExportFailed(path string, err error) *ErrExportFailed {
	return &ErrExportFailed{
		BaseError: NewBaseError(ErrorTypeExport, fmt.Sprintf("failed to write: %s", path), err),
		Path:      path,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	// Check wrapped errors
	if baseErr, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(baseErr.Unwrap(), errType)
	}
	return false
}
