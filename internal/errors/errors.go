package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FormatError indicates the document is unreadable or missing the
	// required top-level questions array
	FormatError ErrorCode = "FORMAT_ERROR"
	// WriteError indicates the output destination could not be written
	WriteError ErrorCode = "WRITE_ERROR"
	// InternalError indicates an unexpected error, e.g. an invariant
	// violation inside the repair engine
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Exit statuses for the CLI. DuplicatesFound is an outcome, not an error:
// detection mode uses it to let callers branch on clean vs. dirty documents.
const (
	ExitClean           = 0
	ExitDuplicatesFound = 1
	ExitFatal           = 2
)

// QtkError represents a qtk error with code, message, and an optional hint
type QtkError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Hint    string      `json:"hint,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new QtkError
func New(code ErrorCode, message string, cause error) *QtkError {
	return &QtkError{
		Code:    code,
		Message: message,
		Hint:    hints[code],
		cause:   cause,
	}
}

// Error implements the error interface
func (e *QtkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *QtkError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *QtkError) WithDetails(details interface{}) *QtkError {
	e.Details = details
	return e
}

// hints maps error codes to operator-facing remediation text
var hints = map[ErrorCode]string{
	FormatError: "check that the file is valid JSON with a top-level 'questions' array",
	WriteError:  "check that the destination path exists and is writable",
}

// ExitCode maps an error to the process exit status. Nil maps to ExitClean.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	return ExitFatal
}

// IsFormat reports whether err is a QtkError carrying FormatError
func IsFormat(err error) bool {
	qe, ok := err.(*QtkError)
	return ok && qe.Code == FormatError
}
