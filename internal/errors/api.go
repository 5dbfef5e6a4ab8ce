package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure for display and exit-code purposes
type Kind int

const (
	// KindUnknown is any failure that is neither local nor HTTP
	KindUnknown Kind = iota
	// KindNetwork means no response was received (offline, DNS, timeout)
	KindNetwork
	// KindValidation is a 422 response carrying field errors
	KindValidation
	// KindUnauthorized is a 401 response
	KindUnauthorized
	// KindForbidden is a 403 response
	KindForbidden
	// KindNotFound is a 404 response
	KindNotFound
	// KindRateLimited is a 429 response
	KindRateLimited
	// KindHTTP is any other error status
	KindHTTP
	// KindLocal is a coded *Error raised by the client itself
	KindLocal
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindHTTP:
		return "http"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// User-facing messages for each kind
const (
	MsgNetwork      = "Network error. Please check your connection."
	MsgUnauthorized = "Please login to continue."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgNotFound     = "The requested resource was not found."
	MsgRateLimited  = "Too many requests. Please try again later."
	MsgGeneric      = "Something went wrong. Please try again."
	MsgUnexpected   = "An unexpected error occurred."
)

// FieldError is the list of messages the server reported for one field
type FieldError struct {
	Field    string   `json:"field" yaml:"field"`
	Messages []string `json:"messages" yaml:"messages"`
}

// FieldErrors keeps validation errors in the order the server sent them.
// A plain map would lose that order and with it "the first error".
type FieldErrors []FieldError

// First returns the first message of the first field, or ""
func (f FieldErrors) First() string {
	if len(f) == 0 || len(f[0].Messages) == 0 {
		return ""
	}
	return f[0].Messages[0]
}

// Get returns the first message for field, or ""
func (f FieldErrors) Get(field string) string {
	for _, fe := range f {
		if fe.Field == field && len(fe.Messages) > 0 {
			return fe.Messages[0]
		}
	}
	return ""
}

// Add appends a message for field, grouping messages of the same field
func (f *FieldErrors) Add(field, message string) {
	for i := range *f {
		if (*f)[i].Field == field {
			(*f)[i].Messages = append((*f)[i].Messages, message)
			return
		}
	}
	*f = append(*f, FieldError{Field: field, Messages: []string{message}})
}

// Error lets FieldErrors travel as the cause of an input error
func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, fe := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, strings.Join(fe.Messages, "; ")))
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON decodes {"field": ["msg", ...]} preserving key order.
// A bare string value is accepted as a single message.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field errors: expected object, got %v", tok)
	}

	var out FieldErrors
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("field errors: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err != nil {
			var single string
			if err := json.Unmarshal(raw, &single); err != nil {
				return fmt.Errorf("field errors: %s: %w", key, err)
			}
			msgs = []string{single}
		}
		out = append(out, FieldError{Field: key, Messages: msgs})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}

// MarshalJSON encodes the errors as an object in their original order
func (f FieldErrors) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		msgs := fe.Messages
		if msgs == nil {
			msgs = []string{}
		}
		val, err := json.Marshal(msgs)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrorEnvelope is the body the API sends with an error status
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// APIError is an error status returned by the API
type APIError struct {
	StatusCode int
	Message    string
	Errors     FieldErrors
	RequestID  string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api error (status %d, request_id %s): %s", e.StatusCode, e.RequestID, msg)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, msg)
}

// NetworkError means the request never produced a response
type NetworkError struct {
	Method  string
	URL     string
	Timeout bool
	Cause   error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	reason := "network error"
	if e.Timeout {
		reason = "network timeout"
	}
	return fmt.Sprintf("%s: %s %s: %v", reason, e.Method, e.URL, e.Cause)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// KindOf classifies err
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var netErr *NetworkError
	if stderrors.As(err, &netErr) {
		return KindNetwork
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnprocessableEntity:
			if len(apiErr.Errors) > 0 {
				return KindValidation
			}
			return KindHTTP
		case http.StatusUnauthorized:
			return KindUnauthorized
		case http.StatusForbidden:
			return KindForbidden
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusTooManyRequests:
			return KindRateLimited
		default:
			return KindHTTP
		}
	}

	var local *Error
	if stderrors.As(err, &local) {
		return KindLocal
	}

	return KindUnknown
}

// Message derives the message shown to the user for err
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	stderrors.As(err, &apiErr)

	switch KindOf(err) {
	case KindNetwork:
		return MsgNetwork
	case KindValidation:
		if first := apiErr.Errors.First(); first != "" {
			return first
		}
		return serverMessage(apiErr)
	case KindUnauthorized:
		return MsgUnauthorized
	case KindForbidden:
		return MsgForbidden
	case KindNotFound:
		return MsgNotFound
	case KindRateLimited:
		return MsgRateLimited
	case KindHTTP:
		return serverMessage(apiErr)
	case KindLocal:
		var local *Error
		stderrors.As(err, &local)
		if local.Message != "" {
			return local.Message
		}
		return MsgUnexpected
	default:
		return MsgUnexpected
	}
}

func serverMessage(e *APIError) string {
	if e != nil && e.Message != "" {
		return e.Message
	}
	return MsgGeneric
}
