package errors

import (
	"fmt"
)

// ExitCode classifies user-visible failures for the CLI.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0
	ExitGeneralError ExitCode = 1
	ExitConfigError  ExitCode = 2
	ExitNoRootError  ExitCode = 3
	ExitNoFilesError ExitCode = 4
	ExitIOError      ExitCode = 6
	ExitExportError  ExitCode = 7
)

func (e ExitCode) Int() int {
	return int(e)
}

// FusionError is the base error type for all application errors
type FusionError struct {
	Message  string   // Human-readable error message
	Cause    error    // Underlying error (for wrapping)
	ExitCode ExitCode // Exit code for CLI
}

// Error returns the error message with cause if present
func (e *FusionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *FusionError) Unwrap() error {
	return e.Cause
}

// NewError creates a new FusionError with the given message and exit code
func NewError(message string, exitCode ExitCode) *FusionError {
	return &FusionError{
		Message:  message,
		ExitCode: exitCode,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(cause error, message string, exitCode ExitCode) *FusionError {
	return &FusionError{
		Message:  message,
		Cause:    cause,
		ExitCode: exitCode,
	}
}

// NewNoRootError is raised when no source directory was provided
func NewNoRootError() *FusionError {
	return NewError("no source directory selected", ExitNoRootError)
}

// NewNoFilesError is raised when a selection contains no files
func NewNoFilesError() *FusionError {
	return NewError("no files selected for processing", ExitNoFilesError)
}

// NewConfigError wraps a configuration load failure
func NewConfigError(cause error) *FusionError {
	return WrapError(cause, "failed to load configuration", ExitConfigError)
}

// NewExportWriteError wraps a failure to write the export document
func NewExportWriteError(path string, cause error) *FusionError {
	return WrapError(cause, fmt.Sprintf("failed to write export to %s", path), ExitExportError)
}
