package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeStorageRead, "failed to read"),
			contains: []string{"[STORE-001]", "failed to read"},
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeStorageWrite, "failed to write", stderrors.New("disk full")),
			contains: []string{"[STORE-002]", "failed to write", "disk full"},
		},
		{
			name: "with suggestions",
			err: New(ErrCodeNotLoggedIn, "Please login to continue.").
				WithSuggestion("Run 'scribe auth login'"),
			contains: []string{"Suggestions:", "Run 'scribe auth login'"},
		},
		{
			name:     "with docs",
			err:      New(ErrCodeConfigLoad, "bad config").WithDocs("https://example.com/docs"),
			contains: []string{"Documentation: https://example.com/docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeStorageCorrupt, "corrupt", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeInputInvalid, "bad").WithSuggestions("one", "two")
	if len(err.Suggestions) != 2 {
		t.Fatalf("len(Suggestions) = %d, want 2", len(err.Suggestions))
	}
	if err.Suggestions[1] != "two" {
		t.Errorf("Suggestions[1] = %q, want %q", err.Suggestions[1], "two")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code ErrorCode
	}{
		{"not logged in", NewNotLoggedInError(), ErrCodeNotLoggedIn},
		{"storage read", NewStorageReadError("/tmp/s", stderrors.New("x")), ErrCodeStorageRead},
		{"storage write", NewStorageWriteError("/tmp/s", stderrors.New("x")), ErrCodeStorageWrite},
		{"storage corrupt", NewStorageCorruptError("/tmp/s", stderrors.New("x")), ErrCodeStorageCorrupt},
		{"input required", NewInputRequiredError("title"), ErrCodeInputRequired},
		{"config invalid", NewConfigInvalidError("storage.backend", "redis", "file, sqlite, memory"), ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if len(tt.err.Suggestions) == 0 {
				t.Error("expected at least one suggestion")
			}
		})
	}
}

func TestAbortedAndNotOwner(t *testing.T) {
	if got := Message(NewAbortedError()); got != "Cancelled." {
		t.Errorf("Message(aborted) = %q", got)
	}
	err := NewNotOwnerError("comment")
	if !HasCode(err, ErrCodeNotOwner) {
		t.Errorf("expected code %s", ErrCodeNotOwner)
	}
	if got := Message(err); got != "Only the author can change or delete this comment." {
		t.Errorf("Message(not owner) = %q", got)
	}
}

func TestNewInputInvalidError(t *testing.T) {
	var fields FieldErrors
	fields.Add("email", "Email is required")
	fields.Add("password", "Password is required")

	err := NewInputInvalidError(fields)
	if err.Message != "Email is required" {
		t.Errorf("Message = %q, want first field message", err.Message)
	}

	var got FieldErrors
	if !stderrors.As(err, &got) {
		t.Fatal("expected FieldErrors in the cause chain")
	}
	if got.Get("password") != "Password is required" {
		t.Errorf("Get(password) = %q", got.Get("password"))
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("hydrate: %w", NewStorageCorruptError("/tmp/x", stderrors.New("bad json")))
	if !HasCode(err, ErrCodeStorageCorrupt) {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(err, ErrCodeStorageRead) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(stderrors.New("plain"), ErrCodeStorageRead) {
		t.Error("HasCode matched a plain error")
	}
}
