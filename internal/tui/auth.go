package tui

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

type homeScreen struct{}

func (homeScreen) init() tea.Cmd { return nil }
func (homeScreen) capturesInput() bool { return false }

func (s homeScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if m.deps.Session.IsAuthenticated() {
		if key.Matches(k, keys.Feed) || key.Matches(k, keys.Open) {
			return s, m.navigate(resource.RouteFeed)
		}
		return s, nil
	}

	switch {
	case key.Matches(k, keys.Login):
		return s, m.navigate(resource.RouteLogin)
	case key.Matches(k, keys.Register):
		return s, m.navigate(resource.RouteRegister)
	}
	return s, nil
}

func (homeScreen) view(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Share your thoughts with the world"))
	b.WriteString("\n\n")
	b.WriteString("Write posts, read what others publish and join the conversation.\n")
	if u := m.currentUser(); u != nil {
		b.WriteString("\nWelcome back, " + m.styles.Accent.Render(u.Name) + ".\n")
	}
	return b.String()
}

func (homeScreen) help() []key.Binding {
	return []key.Binding{keys.Login, keys.Register, keys.Feed}
}

// authScreen is the login or register form
type authScreen struct {
	register   bool
	form       form
	submitting bool
}

func newLoginScreen() *authScreen {
	return &authScreen{form: newForm(
		fieldSpec{name: "email", label: "Email", placeholder: "you@example.com"},
		fieldSpec{name: "password", label: "Password", password: true},
	)}
}

func newRegisterScreen() *authScreen {
	return &authScreen{register: true, form: newForm(
		fieldSpec{name: "name", label: "Name", limit: 255},
		fieldSpec{name: "email", label: "Email", placeholder: "you@example.com"},
		fieldSpec{name: "password", label: "Password", password: true},
		fieldSpec{name: "password_confirmation", label: "Confirm password", password: true},
	)}
}

func (s *authScreen) init() tea.Cmd { return nil }
func (s *authScreen) capturesInput() bool { return true }

func (s *authScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.action != "login" && msg.action != "register" {
			return s, nil
		}
		s.submitting = false
		var apiErr *errors.APIError
		if stderrors.As(msg.err, &apiErr) {
			s.form.errs = apiErr.Errors
		}
		return s, nil

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		if key.Matches(msg, keys.Back) {
			return s, m.navigate(resource.RouteHome)
		}

		var cmd tea.Cmd
		var submit bool
		s.form, cmd, submit = s.form.update(msg)
		if submit {
			return s, s.submit(m)
		}
		return s, cmd
	}
	return s, nil
}

func (s *authScreen) submit(m *Model) tea.Cmd {
	m.auth.ClearError()

	if s.register {
		req := domain.RegisterRequest{
			Name:                 strings.TrimSpace(s.form.value("name")),
			Email:                strings.TrimSpace(s.form.value("email")),
			Password:             s.form.value("password"),
			PasswordConfirmation: s.form.value("password_confirmation"),
		}
		if s.form.errs = validate.Register(req); len(s.form.errs) > 0 {
			return nil
		}
		s.submitting = true
		return m.run("register", func(ctx context.Context) error {
			return m.auth.Register(ctx, req)
		})
	}

	req := domain.LoginRequest{
		Email:    strings.TrimSpace(s.form.value("email")),
		Password: s.form.value("password"),
	}
	if s.form.errs = validate.Login(req); len(s.form.errs) > 0 {
		return nil
	}
	s.submitting = true
	return m.run("login", func(ctx context.Context) error {
		return m.auth.Login(ctx, req)
	})
}

func (s *authScreen) view(m *Model) string {
	var b strings.Builder
	title, hint := "Sign in", "No account yet? Press esc and choose register."
	if s.register {
		title, hint = "Create an account", "Already registered? Press esc and choose login."
	}
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.banner(m.auth.Snapshot().Err))
	b.WriteString(s.form.view(m.styles))
	if s.submitting {
		b.WriteString(m.spinner.View() + " Submitting…\n")
	} else {
		b.WriteString(m.styles.Subtle.Render(hint) + "\n")
	}
	return b.String()
}

func (s *authScreen) help() []key.Binding {
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	return []key.Binding{keys.Next, submit, keys.Back}
}
