package ux

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/scribe/internal/errors"
)

// ErrorReport is what the CLI prints for a failed command
type ErrorReport struct {
	Kind        string              `json:"kind" yaml:"kind"`
	Code        string              `json:"code,omitempty" yaml:"code,omitempty"`
	Message     string              `json:"message" yaml:"message"`
	Fields      errors.FieldErrors  `json:"errors,omitempty" yaml:"-"`
	Suggestions []string            `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	RequestID   string              `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Status      int                 `json:"status,omitempty" yaml:"status,omitempty"`
	Details     map[string][]string `json:"-" yaml:"errors,omitempty"`
}

// Report builds the printable form of err. apiURL is mentioned when the
// API could not be reached.
func Report(err error, apiURL string) ErrorReport {
	r := ErrorReport{
		Kind:    errors.KindOf(err).String(),
		Message: errors.Message(err),
	}

	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		r.Status = apiErr.StatusCode
		r.RequestID = apiErr.RequestID
		r.Fields = apiErr.Errors
	}

	var local *errors.Error
	if stderrors.As(err, &local) {
		r.Code = string(local.Code)
		r.Suggestions = append(r.Suggestions, local.Suggestions...)
		var fields errors.FieldErrors
		if stderrors.As(local.Cause, &fields) {
			r.Fields = fields
		}
	}

	if len(r.Fields) > 0 {
		r.Details = make(map[string][]string, len(r.Fields))
		for _, f := range r.Fields {
			r.Details[f.Field] = f.Messages
		}
	}

	if s := suggestionFor(errors.KindOf(err), apiURL); s != "" {
		r.Suggestions = append(r.Suggestions, s)
	}
	return r
}

func suggestionFor(kind errors.Kind, apiURL string) string {
	switch kind {
	case errors.KindNetwork:
		if apiURL != "" {
			return fmt.Sprintf("Check that the API is running at %s, or start a local one with 'scribe sandbox'", apiURL)
		}
		return "Check that the API is running, or start a local one with 'scribe sandbox'"
	case errors.KindUnauthorized:
		return "Sign in again with 'scribe auth login'"
	case errors.KindForbidden:
		return "Only the author can change or delete this"
	case errors.KindRateLimited:
		return "Wait a moment before retrying"
	default:
		return ""
	}
}

// RenderText prints the report for a terminal
func (r ErrorReport) RenderText(w io.Writer, styles Styles) error {
	var b strings.Builder

	b.WriteString(styles.Error.Render("Error: " + r.Message))
	b.WriteString("\n")

	// The first message is already the headline when it came from a field.
	for i, f := range r.Fields {
		for j, msg := range f.Messages {
			if i == 0 && j == 0 && msg == r.Message {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", styles.Subtle.Render(f.Field+":"), msg)
		}
	}

	for _, s := range r.Suggestions {
		fmt.Fprintf(&b, "%s %s\n", styles.Accent.Render("hint:"), s)
	}

	if r.RequestID != "" {
		fmt.Fprintf(&b, "%s\n", styles.Subtle.Render("request id: "+r.RequestID))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
