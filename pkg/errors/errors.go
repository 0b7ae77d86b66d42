package errors

import "fmt"

// ErrorType represents different types of errors that can occur in the pipeline
type ErrorType string

const (
	ErrorTypeInvalidURL    ErrorType = "invalid_url"
	ErrorTypeNetwork       ErrorType = "network"
	ErrorTypeHTTP          ErrorType = "http"
	ErrorTypeEmptyResponse ErrorType = "empty_response"
	ErrorTypeParse         ErrorType = "parse"
	ErrorTypeWrite         ErrorType = "write"
	ErrorTypeTransfer      ErrorType = "transfer"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// Error represents a pipeline error with type and stage information
type Error struct {
	Type    ErrorType
	Stage   string // pipeline stage that produced the error (fetch, extract, download)
	Message string
	Code    int // HTTP status code when applicable, 0 otherwise
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Stage, e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Stage, e.Type, e.Message)
}

// New creates a typed pipeline error
func New(errType ErrorType, stage, message string) *Error {
	return &Error{Type: errType, Stage: stage, Message: message}
}

// NewHTTP creates an HTTP error carrying the response status code
func NewHTTP(stage, message string, code int) *Error {
	return &Error{Type: ErrorTypeHTTP, Stage: stage, Message: message, Code: code}
}

// IsFatal reports whether an error type aborts the whole run.
// Write and transfer errors are per-entry and leave the batch running.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeWrite, ErrorTypeTransfer:
		return false
	default:
		return true
	}
}
