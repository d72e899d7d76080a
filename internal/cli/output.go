package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sqlmongo/internal/sqlerr"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Batch entries failed or did not match expectations
	ExitCommandError = 2 // Command error (bad input, unreadable file, translation error)
)

// Error codes for failures that do not come from the translator.
const (
	ErrCodeNoInput      = "E_NO_INPUT"
	ErrCodeReadFailed   = "E_READ_FAILED"
	ErrCodeLoadFailed   = "E_LOAD_FAILED"
	ErrCodeBatchFailed  = "E_BATCH_FAILED"
	ErrCodeEncodeFailed = "E_ENCODE_FAILED"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
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
// Returns ExitSuccess for nil and ExitCommandError for errors that are not
// an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter writes command results in the configured format.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	TraceID string // copied into JSON responses
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // run correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "MALFORMED_STATEMENT", "E_LOAD_FAILED", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// ErrorDetails locates a translation error in its input.
type ErrorDetails struct {
	Input    string `json:"input"`
	Position *int   `json:"position,omitempty"`
}

// Success writes a successful result. Text and command formats print data
// as a line; JSON wraps it in a CLIResponse.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}

	fmt.Fprintln(f.Writer, payloadString(data))
	return nil
}

// Error writes an error. Only the JSON format writes anything, since text
// errors are reported on stderr by the caller of the command.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format != "json" {
		return nil
	}
	return f.encode(CLIResponse{
		Status: "error",
		Error: &CLIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		TraceID: f.TraceID,
	})
}

// TranslationError writes err, using its translator code and position
// when it has them.
func (f *OutputFormatter) TranslationError(err error) error {
	var serr *sqlerr.Error
	if !errors.As(err, &serr) {
		return f.Error(ErrCodeBatchFailed, err.Error(), nil)
	}
	details := ErrorDetails{Input: serr.Input}
	if serr.Pos >= 0 {
		pos := serr.Pos
		details.Position = &pos
	}
	return f.Error(string(serr.Code), serr.Message, details)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(resp)
}
