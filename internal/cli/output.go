package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/roach88/aes/internal/evidence"
	"github.com/roach88/aes/internal/scenario"
	"github.com/roach88/aes/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // No command given, or a usage/flag error
	ExitCommandError = 2 // Command error (bad scenario, unwritable output, etc.)
)

// Error codes reported in JSON error responses.
const (
	ErrCodeValidation = "E001" // scenario failed validation
	ErrCodeFormat     = "E002" // scenario format unavailable
	ErrCodeLocked     = "E003" // evidence log locked by another process
	ErrCodeNotFound   = "E004" // run artifact or index entry missing
	ErrCodeCommand    = "E005" // any other command error
	ErrCodeUsage      = "E006" // no command or bad flags
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
	Details any    // Reported with JSON errors (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode classifies err for JSON error responses.
func errorCode(err error) string {
	var locked *evidence.ErrLocked
	var exitErr *ExitError
	switch {
	case scenario.IsValidationError(err):
		return ErrCodeValidation
	case errors.Is(err, scenario.ErrFormatUnavailable):
		return ErrCodeFormat
	case errors.As(err, &locked):
		return ErrCodeLocked
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &exitErr) && exitErr.Code == ExitCommandError:
		return ErrCodeCommand
	default:
		return ErrCodeUsage
	}
}

// errorDetails returns structured context for err, or nil.
func errorDetails(err error) any {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Details != nil {
		return exitErr.Details
	}
	var ve *scenario.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		return map[string]string{"field": ve.Field}
	}
	var locked *evidence.ErrLocked
	if errors.As(err, &locked) {
		return map[string]string{"lock": locked.Path}
	}
	return nil
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // optional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Fprintln.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error: %s\n", message)
	return nil
}
