package tui

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

type createScreen struct {
	title      textinput.Model
	body       textarea.Model
	onBody     bool
	errs       errors.FieldErrors
	err        string
	submitting bool
}

func newCreateScreen() *createScreen {
	title := textinput.New()
	title.Placeholder = "An interesting title"
	title.Prompt = ""
	title.CharLimit = 255
	title.Cursor.SetMode(cursor.CursorStatic)
	title.Focus()

	body := textarea.New()
	body.Placeholder = "Tell your story…"
	body.ShowLineNumbers = false
	body.SetHeight(10)

	return &createScreen{title: title, body: body}
}

func (s *createScreen) init() tea.Cmd { return nil }
func (s *createScreen) capturesInput() bool { return true }

func (s *createScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.action != "create-post" {
			return s, nil
		}
		s.submitting = false
		if msg.err != nil {
			s.err = errors.Message(msg.err)
			var apiErr *errors.APIError
			if stderrors.As(msg.err, &apiErr) {
				s.errs = apiErr.Errors
			}
			return s, nil
		}
		m.flash = "Post published"
		return s, nil

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			return s, m.navigate(resource.RouteFeed)
		case key.Matches(msg, keys.Submit):
			return s, s.submit(m)
		case msg.Type == tea.KeyTab || msg.Type == tea.KeyShiftTab:
			s.toggle()
			return s, nil
		case msg.Type == tea.KeyEnter && !s.onBody:
			s.toggle()
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.onBody {
		s.body, cmd = s.body.Update(msg)
	} else {
		s.title, cmd = s.title.Update(msg)
	}
	return s, cmd
}

func (s *createScreen) toggle() {
	s.onBody = !s.onBody
	if s.onBody {
		s.title.Blur()
		s.body.Focus()
	} else {
		s.body.Blur()
		s.title.Focus()
	}
}

func (s *createScreen) submit(m *Model) tea.Cmd {
	req := domain.CreatePostRequest{
		Title: strings.TrimSpace(s.title.Value()),
		Body:  strings.TrimSpace(s.body.Value()),
	}
	s.err = ""
	if s.errs = validate.Post(req); len(s.errs) > 0 {
		return nil
	}

	s.submitting = true
	return m.run("create-post", func(ctx context.Context) error {
		post, err := m.deps.Posts.Create(ctx, req)
		if err != nil {
			return err
		}
		m.deps.Router.Navigate(resource.PostRoute(post.ID))
		return nil
	})
}

func (s *createScreen) view(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Write a post"))
	b.WriteString("\n\n")
	b.WriteString(m.banner(s.err))

	titleLabel, bodyLabel := "  Title", "  Body"
	if s.onBody {
		bodyLabel = m.styles.Selected.Render("› Body")
	} else {
		titleLabel = m.styles.Selected.Render("› Title")
	}

	b.WriteString(titleLabel + "\n  " + s.title.View() + "\n")
	if msg := s.errs.Get("title"); msg != "" {
		b.WriteString("  " + m.styles.Error.Render(msg) + "\n")
	}
	b.WriteString("\n" + bodyLabel + "\n" + s.body.View() + "\n")
	if msg := s.errs.Get("body"); msg != "" {
		b.WriteString("  " + m.styles.Error.Render(msg) + "\n")
	}
	if s.submitting {
		b.WriteString(m.spinner.View() + " Publishing…\n")
	}
	return b.String()
}

func (s *createScreen) help() []key.Binding {
	return []key.Binding{keys.Next, keys.Submit, keys.Back}
}

type notFoundScreen struct{}

func (notFoundScreen) init() tea.Cmd { return nil }
func (notFoundScreen) capturesInput() bool { return false }

func (s notFoundScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, keys.Back) || key.Matches(k, keys.Open)) {
		return s, m.navigate(resource.RouteHome)
	}
	return s, nil
}

func (notFoundScreen) view(m *Model) string {
	return m.styles.Header.Render("404") + "\n\n" + "The page you are looking for does not exist.\n"
}

func (notFoundScreen) help() []key.Binding {
	home := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home"))
	return []key.Binding{home}
}
