package config

import (
	"errors"
	"fmt"

	"github.com/dshills/ksreactive/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed indicates the configuration fails validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNoWorkspace indicates the workspace root is empty.
	ErrNoWorkspace = errors.New("workspace not set")

	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidPattern indicates a malformed watch or ignore pattern.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidDebounce indicates a negative debounce delay.
	ErrInvalidDebounce = errors.New("invalid debounce delay")

	// ErrInvalidContextKey indicates an empty context key.
	ErrInvalidContextKey = errors.New("invalid context key")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the invalid value.
	Value any
	// Err is the sentinel describing the failure.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (value: %v)", e.Path, e.Err, e.Value)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrValidationFailed}
}
