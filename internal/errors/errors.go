// Package errors provides standardized error types for certbot-multidomain.
//
// CertError is the single structured error type used across packages. It
// carries a Code for programmatic handling, a human-readable Message, the
// domain key involved (if any) and the wrapped cause.
//
// # Error Codes
//
//   - CONFIG: the domain configuration file is missing, malformed or invalid
//   - PATH: startup path validation failed
//   - PROCESS: an external process could not start, timed out or exited nonzero
//   - INTERNAL: anything else
//
// # Usage
//
//	return errors.Config("email is required", nil)
//	return errors.WrapDomain(errors.ErrCodeProcess, "example.com", err)
//
//	if errors.Is(err, errors.ErrConfigNotFound) {
//	    // handle missing config
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeConfig   ErrorCode = "CONFIG"   // Configuration file error
	ErrCodePath     ErrorCode = "PATH"     // Startup path validation failed
	ErrCodeProcess  ErrorCode = "PROCESS"  // External process failure
	ErrCodeInternal ErrorCode = "INTERNAL" // Internal/unexpected error
)

// CertError represents a structured error with context about the operation.
type CertError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain key (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *CertError) Error() string {
	switch {
	case e.Domain != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("domain %s: %s: %v", e.Domain, e.Message, e.Err)
	case e.Domain != "" && e.Message != "":
		return fmt.Sprintf("domain %s: %s", e.Domain, e.Message)
	case e.Domain != "" && e.Err != nil:
		return fmt.Sprintf("domain %s: %v", e.Domain, e.Err)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *CertError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code, and on message when the target has one.
func (e *CertError) Is(target error) bool {
	t, ok := target.(*CertError)
	if !ok {
		return false
	}
	if t.Message != "" && t.Message != e.Message {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = &CertError{Code: ErrCodePath, Message: "config file not found"}

	// ErrOutputNotFound indicates the certificate output path does not exist.
	ErrOutputNotFound = &CertError{Code: ErrCodePath, Message: "output path not found"}

	// ErrOutputNotDir indicates the certificate output path is not a directory.
	ErrOutputNotDir = &CertError{Code: ErrCodePath, Message: "output path is not a directory"}

	// ErrConfigInvalid indicates the configuration is malformed or incomplete.
	ErrConfigInvalid = &CertError{Code: ErrCodeConfig}

	// ErrProcessFailed indicates an external process did not succeed.
	ErrProcessFailed = &CertError{Code: ErrCodeProcess}
)

// Path creates a path validation error from a sentinel and the offending path.
func Path(sentinel *CertError, path string) error {
	return &CertError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Err:     fmt.Errorf("%s", path),
	}
}

// Config creates a configuration error with a custom message.
func Config(msg string, err error) error {
	return &CertError{
		Code:    ErrCodeConfig,
		Message: msg,
		Err:     err,
	}
}

// ConfigDomain creates a configuration error scoped to one domain entry.
func ConfigDomain(domain, msg string) error {
	return &CertError{
		Code:    ErrCodeConfig,
		Message: msg,
		Domain:  domain,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &CertError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, err error) error {
	return &CertError{
		Code:   code,
		Domain: domain,
		Err:    err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
