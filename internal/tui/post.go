package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/format"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/validate"
)

type postMode int

const (
	modeBrowse postMode = iota
	modeCompose
	modeEdit
	modeConfirmComment
	modeConfirmPost
)

type postScreen struct {
	ctx      context.Context
	id       int64
	post     *resource.Post
	comments *resource.Comments

	mode      postMode
	cursor    int
	editing   int64
	editor    textarea.Model
	inputErr  string
	busy      bool
	deleteErr string
}

func newPostScreen(m *Model, id int64) *postScreen {
	editor := textarea.New()
	editor.Placeholder = "Write a comment…"
	editor.CharLimit = 500
	editor.SetHeight(4)
	editor.ShowLineNumbers = false

	return &postScreen{
		ctx:      m.ctx,
		id:       id,
		post:     resource.NewPost(m.deps.Posts, id),
		comments: resource.NewComments(m.deps.Comments, id),
		editor:   editor,
	}
}

func (s *postScreen) init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			_ = s.post.Load(s.ctx)
			return refreshMsg{}
		},
		func() tea.Msg {
			_ = s.comments.Load(s.ctx)
			return refreshMsg{}
		},
	)
}

func (s *postScreen) capturesInput() bool {
	return s.mode == modeCompose || s.mode == modeEdit
}

// selected returns the comment under the cursor
func (s *postScreen) selected() (domain.Comment, bool) {
	list := s.comments.Snapshot().Data
	if s.cursor < 0 || s.cursor >= len(list) {
		return domain.Comment{}, false
	}
	return list[s.cursor], true
}

func (s *postScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		s.clamp()
		return s, nil

	case resultMsg:
		return s, s.finish(m, msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch s.mode {
		case modeCompose, modeEdit:
			return s, s.updateEditor(m, msg)
		case modeConfirmComment, modeConfirmPost:
			return s, s.updateConfirm(m, msg)
		default:
			return s, s.updateBrowse(m, msg)
		}
	}

	if s.capturesInput() {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *postScreen) updateBrowse(m *Model, msg tea.KeyMsg) tea.Cmd {
	user := m.currentUser()

	switch {
	case key.Matches(msg, keys.Back):
		return m.navigate(resource.RouteFeed)
	case key.Matches(msg, keys.Up):
		s.cursor--
		s.clamp()
	case key.Matches(msg, keys.Down):
		s.cursor++
		s.clamp()
	case key.Matches(msg, keys.Refresh):
		return s.init()
	case key.Matches(msg, keys.Comment):
		s.mode = modeCompose
		s.inputErr = ""
		s.editor.Reset()
		s.editor.Focus()
	case key.Matches(msg, keys.Edit):
		if c, ok := s.selected(); ok && c.OwnedBy(user) {
			s.mode = modeEdit
			s.editing = c.ID
			s.inputErr = ""
			s.editor.SetValue(c.Body)
			s.editor.Focus()
		}
	case key.Matches(msg, keys.Delete):
		if c, ok := s.selected(); ok && c.OwnedBy(user) {
			s.mode = modeConfirmComment
			s.editing = c.ID
		}
	case key.Matches(msg, keys.Remove):
		if p := s.post.Snapshot().Data; p != nil && p.OwnedBy(user) {
			s.mode = modeConfirmPost
		}
	}
	return nil
}

func (s *postScreen) updateEditor(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		s.mode = modeBrowse
		s.editor.Blur()
		return nil
	case key.Matches(msg, keys.Submit):
		body := strings.TrimSpace(s.editor.Value())
		if fields := validate.Comment(body); len(fields) > 0 {
			s.inputErr = fields.First()
			return nil
		}
		s.busy = true
		if s.mode == modeEdit {
			id := s.editing
			return m.run("update-comment", func(ctx context.Context) error {
				_, err := s.comments.Update(ctx, id, body)
				return err
			})
		}
		return m.run("add-comment", func(ctx context.Context) error {
			_, err := s.comments.Add(ctx, body)
			return err
		})
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return cmd
}

func (s *postScreen) updateConfirm(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		s.busy = true
		if s.mode == modeConfirmPost {
			return m.run("delete-post", func(ctx context.Context) error {
				if err := m.deps.Posts.Delete(ctx, s.id); err != nil {
					return err
				}
				m.deps.Router.Navigate(resource.RouteFeed)
				return nil
			})
		}
		id := s.editing
		return m.run("delete-comment", func(ctx context.Context) error {
			return s.comments.Delete(ctx, id)
		})
	case key.Matches(msg, keys.No):
		s.mode = modeBrowse
	}
	return nil
}

// finish handles the outcome of a write
func (s *postScreen) finish(m *Model, msg resultMsg) tea.Cmd {
	s.busy = false

	if msg.action == "delete-post" {
		s.mode = modeBrowse
		if msg.err != nil {
			s.deleteErr = errors.Message(msg.err)
			return nil
		}
		m.flash = "Post deleted"
		return nil
	}

	if msg.err != nil {
		// the comment list keeps its state; the hook holds the message
		if s.mode == modeConfirmComment {
			s.mode = modeBrowse
		}
		return nil
	}

	switch msg.action {
	case "add-comment":
		m.flash = "Comment added"
		s.cursor = 0
	case "update-comment":
		m.flash = "Comment updated"
	case "delete-comment":
		m.flash = "Comment deleted"
	}
	s.mode = modeBrowse
	s.editor.Blur()
	s.clamp()
	return nil
}

func (s *postScreen) clamp() {
	n := len(s.comments.Snapshot().Data)
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *postScreen) view(m *Model) string {
	state := s.post.Snapshot()

	var b strings.Builder
	if state.Data == nil {
		b.WriteString(m.banner(state.Err))
		if state.IsLoading {
			b.WriteString(m.spinner.View() + " Loading post…\n")
		}
		return b.String()
	}

	p := state.Data
	b.WriteString(m.styles.Header.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("%s  %s · %s · %s",
		m.styles.Accent.Render(format.Initials(p.User.Name)), p.User.Name,
		format.Date(p.CreatedAt), format.EstimateReadTime(p.Body))))
	b.WriteString("\n\n")
	b.WriteString(m.banner(s.deleteErr))
	b.WriteString(p.Body)
	b.WriteString("\n\n")

	if s.mode == modeConfirmPost {
		b.WriteString(m.styles.Warning.Render("Delete this post? (y/n)") + "\n\n")
	}

	b.WriteString(s.viewComments(m))
	return b.String()
}

func (s *postScreen) viewComments(m *Model) string {
	state := s.comments.Snapshot()
	user := m.currentUser()

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Comments (%d)", len(state.Data))))
	b.WriteString("\n\n")
	b.WriteString(m.banner(state.Err))

	if s.mode == modeCompose || s.mode == modeEdit {
		b.WriteString(s.editor.View() + "\n")
		if s.inputErr != "" {
			b.WriteString(m.styles.Error.Render(s.inputErr) + "\n")
		}
		if s.busy {
			b.WriteString(m.spinner.View() + " Saving…\n")
		}
		b.WriteString("\n")
	}

	if state.IsLoading && state.Data == nil {
		b.WriteString(m.spinner.View() + " Loading comments…\n")
		return b.String()
	}
	if len(state.Data) == 0 {
		b.WriteString(m.styles.Subtle.Render("No comments yet. Be the first to comment!") + "\n")
	}

	now := timeNow()
	for i, c := range state.Data {
		marker := "  "
		if i == s.cursor {
			marker = m.styles.Selected.Render("› ")
		}
		author := c.User.Name
		if c.OwnedBy(user) {
			author += m.styles.Subtle.Render(" (you)")
		}
		b.WriteString(marker + m.styles.Accent.Render(author) + " " +
			m.styles.Subtle.Render(format.Ago(c.CreatedAt, now)) + "\n")
		b.WriteString("  " + c.Body + "\n")
		if s.mode == modeConfirmComment && c.ID == s.editing {
			b.WriteString("  " + m.styles.Warning.Render("Delete this comment? (y/n)") + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *postScreen) help() []key.Binding {
	switch s.mode {
	case modeCompose, modeEdit:
		return []key.Binding{keys.Submit, keys.Back}
	case modeConfirmComment, modeConfirmPost:
		return []key.Binding{keys.Yes, keys.No}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Comment, keys.Edit, keys.Delete, keys.Remove, keys.Refresh, keys.Back}
}
