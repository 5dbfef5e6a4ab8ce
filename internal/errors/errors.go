package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session storage errors (STORE-001 to STORE-099)
	ErrCodeStorageRead    ErrorCode = "STORE-001"
	ErrCodeStorageWrite   ErrorCode = "STORE-002"
	ErrCodeStorageCorrupt ErrorCode = "STORE-003"
	ErrCodeStorageBackend ErrorCode = "STORE-004"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotLoggedIn    ErrorCode = "SESSION-001"
	ErrCodeSessionPersist ErrorCode = "SESSION-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"

	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeInputInvalid  ErrorCode = "INPUT-001"
	ErrCodeInputRequired ErrorCode = "INPUT-002"
	ErrCodeAborted       ErrorCode = "INPUT-003"

	// Ownership errors (OWNER-001 to OWNER-099)
	ErrCodeNotOwner ErrorCode = "OWNER-001"

	// API transport errors (API-001 to API-099)
	ErrCodeAPIDecode  ErrorCode = "API-001"
	ErrCodeAPIRequest ErrorCode = "API-002"
)

// Error is a local failure with a code, a user-facing message and
// optional recovery suggestions. Remote failures are APIError or NetworkError.
type Error struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *Error) WithDocs(url string) *Error {
	e.DocsURL = url
	return e
}

// NewNotLoggedInError is returned by commands that need a session
func NewNotLoggedInError() *Error {
	return New(ErrCodeNotLoggedIn, "Please login to continue.").
		WithSuggestion("Run 'scribe auth login' to sign in").
		WithSuggestion("Run 'scribe auth register' to create an account")
}

// NewStorageReadError wraps a failure to read the session store
func NewStorageReadError(path string, cause error) *Error {
	return Wrap(ErrCodeStorageRead, fmt.Sprintf("failed to read session storage: %s", path), cause).
		WithSuggestion("Check the permissions of the scribe home directory")
}

// NewStorageWriteError wraps a failure to persist the session
func NewStorageWriteError(path string, cause error) *Error {
	return Wrap(ErrCodeStorageWrite, fmt.Sprintf("failed to write session storage: %s", path), cause).
		WithSuggestion("Check that the scribe home directory is writable").
		WithSuggestion("Use --home to point scribe at another directory")
}

// NewStorageCorruptError reports an unparseable session file
func NewStorageCorruptError(path string, cause error) *Error {
	return Wrap(ErrCodeStorageCorrupt, fmt.Sprintf("session storage is corrupt: %s", path), cause).
		WithSuggestion("Run 'scribe auth logout' to reset the local session")
}

// NewInputInvalidError reports a form field that failed validation
func NewInputInvalidError(fields FieldErrors) *Error {
	msg := "invalid input"
	if first := fields.First(); first != "" {
		msg = first
	}
	return &Error{
		Code:    ErrCodeInputInvalid,
		Message: msg,
		Cause:   fields,
	}
}

// NewInputRequiredError reports a missing command-line value
func NewInputRequiredError(flag string) *Error {
	return New(ErrCodeInputRequired, fmt.Sprintf("--%s is required", flag)).
		WithSuggestion("Run with --help to see all available options")
}

// NewAbortedError reports a declined confirmation
func NewAbortedError() *Error {
	return New(ErrCodeAborted, "Cancelled.")
}

// NewNotOwnerError reports an attempt to change something another user wrote
func NewNotOwnerError(what string) *Error {
	return New(ErrCodeNotOwner, fmt.Sprintf("Only the author can change or delete this %s.", what))
}

// NewConfigInvalidError reports a configuration value that cannot be used
func NewConfigInvalidError(key string, value interface{}, valid string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid value for %s: %v", key, value)).
		WithSuggestion(fmt.Sprintf("Valid values: %s", valid)).
		WithSuggestion("Run 'scribe config view' to inspect the effective configuration")
}

// HasCode reports whether err carries an *Error with the given code
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
