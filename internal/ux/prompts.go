package ux

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown.
// Prompts are disabled in CI environments or when stdin is not a terminal.
func ShouldPrompt() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE"} {
		if os.Getenv(envVar) != "" {
			return false
		}
	}
	return IsInteractive()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// PromptLogin asks for the fields of req that are still empty
func PromptLogin(req *domain.LoginRequest) error {
	var fields []huh.Field
	if req.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&req.Email).Validate(required("email")))
	}
	if req.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password))
	}
	return runFields(fields)
}

// PromptRegister asks for the fields of req that are still empty
func PromptRegister(req *domain.RegisterRequest) error {
	var fields []huh.Field
	if req.Name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&req.Name).Validate(required("name")))
	}
	if req.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&req.Email).Validate(required("email")))
	}
	if req.Password == "" {
		fields = append(fields,
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&req.PasswordConfirmation),
		)
	}
	return runFields(fields)
}

// PromptPost asks for a missing title or body
func PromptPost(req *domain.CreatePostRequest) error {
	var fields []huh.Field
	if req.Title == "" {
		fields = append(fields, huh.NewInput().Title("Title").Value(&req.Title))
	}
	if req.Body == "" {
		fields = append(fields, huh.NewText().Title("Body").Lines(8).Value(&req.Body))
	}
	return runFields(fields)
}

// PromptText asks for a single multi-line value
func PromptText(title string, value *string) error {
	return runFields([]huh.Field{huh.NewText().Title(title).Lines(4).Value(value)})
}

// Confirm asks a yes/no question
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue
	field := huh.NewConfirm().Title(message).Value(&confirmed)
	if err := runFields([]huh.Field{field}); err != nil {
		return false, err
	}
	return confirmed, nil
}

func runFields(fields []huh.Field) error {
	if len(fields) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
