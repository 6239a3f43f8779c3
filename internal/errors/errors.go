// Package errors provides the sentinel error taxonomy for native builds and
// maps it onto process exit codes.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions. Every failure in the packaging
// pipeline is terminal; callers classify with errors.Is.
var (
	// ErrUnsupportedPlatform indicates an unknown target platform identifier.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrArchiveIO indicates the source archive could not be read or the
	// output archive could not be written.
	ErrArchiveIO = errors.New("archive I/O error")

	// ErrArchiveFormat indicates a malformed archive or manifest.
	ErrArchiveFormat = errors.New("archive format error")

	// ErrResourceExtraction indicates a bundled helper resource is missing or
	// could not be copied.
	ErrResourceExtraction = errors.New("resource extraction failed")

	// ErrWrapperTool indicates the executable-wrapping tool failed.
	ErrWrapperTool = errors.New("executable wrapper failed")

	// ErrPermission indicates a file permission could not be set.
	ErrPermission = errors.New("permission error")

	// ErrValidation indicates the archive attributes failed validation.
	ErrValidation = errors.New("validation error")
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path involved (optional).
	Location string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString(e.Type)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Location != "" {
		b.WriteString(" (")
		b.WriteString(e.Location)
		b.WriteString(")")
	}
	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewUnsupportedPlatformError reports an unknown platform identifier.
func NewUnsupportedPlatformError(platform string) error {
	return &DetailError{
		Type:    "unsupported platform",
		Message: fmt.Sprintf("platform %q is unsupported", platform),
		Hint:    "use one of: macos, linux, unix, windows, current",
		Cause:   ErrUnsupportedPlatform,
	}
}

// NewValidationError reports invalid archive attributes.
func NewValidationError(message, location string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Cause:    ErrValidation,
	}
}

// Wrap attaches a sentinel to err so errors.Is matches both the sentinel and
// the original cause.
func Wrap(sentinel error, err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if err == nil {
		return fmt.Errorf("%s: %w", msg, sentinel)
	}
	return fmt.Errorf("%s: %w: %w", msg, sentinel, err)
}
