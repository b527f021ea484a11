package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExecutionRequest is one remote function call. It is built per call and
// never persisted. Its JSON form is the body sent to the script service.
type ExecutionRequest struct {
	// Function is the name of the Apps Script function to run.
	Function string `json:"function"`
	// Parameters are passed positionally and must be JSON-compatible.
	Parameters []any `json:"parameters"`
}

// NewExecutionRequest builds a request, substituting DefaultFunction for an
// empty name and an empty list for nil parameters.
func NewExecutionRequest(function string, parameters []any) ExecutionRequest {
	if function == "" {
		function = DefaultFunction
	}
	if parameters == nil {
		parameters = []any{}
	}
	return ExecutionRequest{Function: function, Parameters: parameters}
}

// ExecutionResult is a successful response from the script service.
// The shape of Result is defined by the remote function.
type ExecutionResult struct {
	// Done reports whether the execution finished.
	Done bool
	// Result is the value returned by the remote function.
	Result any
	// Raw is the complete response object as sent by the server.
	Raw json.RawMessage
}

// ErrorKind tags an ExecutionError with its cause.
type ErrorKind string

const (
	// ErrorKindScript means the script ran and reported an error.
	ErrorKindScript ErrorKind = "script"
	// ErrorKindTransport means the call failed before a response was decoded.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindNotAuthenticated means no script client was available.
	ErrorKindNotAuthenticated ErrorKind = "not_authenticated"
	// ErrorKindInvalidRequest means the call could not be addressed.
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	// ErrorKindUnexpectedResult means the result could not be decoded.
	ErrorKindUnexpectedResult ErrorKind = "unexpected_result"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorKindScript:
		return ErrScriptFailed
	case ErrorKindTransport:
		return ErrTransport
	case ErrorKindNotAuthenticated:
		return ErrNotAuthenticated
	case ErrorKindInvalidRequest:
		return ErrInvalidRequest
	case ErrorKindUnexpectedResult:
		return ErrUnexpectedResult
	default:
		return nil
	}
}

// StackFrame is one entry of an Apps Script stack trace.
type StackFrame struct {
	Function   string
	LineNumber int64
}

// ExecutionError describes a failed remote function call.
type ExecutionError struct {
	// Kind is the failure category.
	Kind ErrorKind
	// Function is the remote function that was called.
	Function string
	// Message is the first error message reported, if any.
	Message string
	// ErrorType is the Apps Script exception type (script errors only).
	ErrorType string
	// StackTrace is the Apps Script stack (script errors only).
	StackTrace []StackFrame
	// StatusCode is the HTTP status of the response (transport errors only).
	StatusCode int
	// Err is the underlying error, if any.
	Err error
}

// Error implements error.
func (e *ExecutionError) Error() string {
	reason := string(e.Kind)
	if s := e.Kind.sentinel(); s != nil {
		reason = s.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "execute %q: %s", e.Function, reason)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind.
func (e *ExecutionError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
