package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/format"
	"github.com/felixgeelhaar/scribe/internal/resource"
)

type feedScreen struct {
	ctx    context.Context
	posts  *resource.Posts
	cursor int
}

func newFeedScreen(m *Model) *feedScreen {
	return &feedScreen{
		ctx:   m.ctx,
		posts: resource.NewPosts(m.deps.Posts, m.deps.Router, 1, resource.WithPerPage(m.deps.PerPage)),
	}
}

func (s *feedScreen) init() tea.Cmd {
	return func() tea.Msg {
		_ = s.posts.Load(s.ctx)
		return refreshMsg{}
	}
}

func (s *feedScreen) capturesInput() bool { return false }

func (s *feedScreen) fetch(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = fn(s.ctx)
		return refreshMsg{}
	}
}

func (s *feedScreen) update(m *Model, msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if m.deps.Router.takeScroll() {
			s.cursor = 0
		}
		s.clamp()
		return s, nil

	case tea.KeyMsg:
		view := s.posts.Snapshot()
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor--
			s.clamp()
		case key.Matches(msg, keys.Down):
			s.cursor++
			s.clamp()
		case key.Matches(msg, keys.Open):
			if s.cursor < len(view.Data) {
				return s, m.navigate(resource.PostRoute(view.Data[s.cursor].ID))
			}
		case key.Matches(msg, keys.PrevPage):
			if view.Meta != nil && view.Meta.HasPrev() {
				return s, s.goTo(view.Page-1)
			}
		case key.Matches(msg, keys.NextPage):
			if view.Meta != nil && view.Meta.HasNext() {
				return s, s.goTo(view.Page+1)
			}
		case key.Matches(msg, keys.Refresh):
			return s, s.fetch(s.posts.Refetch)
		case key.Matches(msg, keys.Create):
			return s, m.navigate(resource.RouteCreatePost)
		case len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "9":
			n, _ := strconv.Atoi(msg.String())
			if view.Meta != nil && n <= view.Meta.LastPage && n != view.Page {
				return s, s.goTo(n)
			}
		}
	}
	return s, nil
}

func (s *feedScreen) goTo(page int) tea.Cmd {
	return s.fetch(func(ctx context.Context) error {
		return s.posts.GoToPage(ctx, page)
	})
}

func (s *feedScreen) clamp() {
	n := len(s.posts.Snapshot().Data)
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *feedScreen) view(m *Model) string {
	view := s.posts.Snapshot()

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Latest posts"))
	b.WriteString("\n\n")
	b.WriteString(m.banner(view.Err))

	if view.IsLoading && view.Data == nil {
		b.WriteString(m.spinner.View() + " Loading posts…\n")
		return b.String()
	}
	if len(view.Data) == 0 && view.Err == "" {
		b.WriteString(m.styles.Subtle.Render("No posts yet. Press n to write the first one."))
		b.WriteString("\n")
	}

	for i, p := range view.Data {
		b.WriteString(s.renderPost(m, p, i == s.cursor))
		b.WriteString("\n")
	}

	if view.IsLoading {
		b.WriteString(m.spinner.View() + " Loading…\n")
	}
	if view.Meta != nil {
		if control := renderPagination(m, *view.Meta); control != "" {
			b.WriteString(control + "\n")
		}
		b.WriteString(m.styles.Subtle.Render(format.Count(view.Meta.Total, "post")) + "\n")
	}
	return b.String()
}

func (s *feedScreen) renderPost(m *Model, p domain.Post, selected bool) string {
	title := p.Title
	marker := "  "
	if selected {
		title = m.styles.Selected.Render(title)
		marker = m.styles.Selected.Render("› ")
	}

	meta := fmt.Sprintf("%s · %s · %s",
		p.User.Name, format.Date(p.CreatedAt), format.EstimateReadTime(p.Body))

	return marker + title + "\n" +
		"  " + m.styles.Subtle.Render(meta) + "\n" +
		"  " + format.Truncate(strings.Join(strings.Fields(p.Body), " "), 100) + "\n"
}

// renderPagination draws the page control, or "" when there is one page
func renderPagination(m *Model, meta domain.PageMeta) string {
	items := format.PageNumbers(meta)
	if items == nil {
		return ""
	}

	parts := make([]string, 0, len(items)+2)
	prev, next := "‹ prev", "next ›"
	if !meta.HasPrev() {
		prev = m.styles.Subtle.Render(prev)
	}
	if !meta.HasNext() {
		next = m.styles.Subtle.Render(next)
	}

	parts = append(parts, prev)
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Number == meta.CurrentPage:
			parts = append(parts, m.styles.Selected.Render(fmt.Sprintf("[%d]", it.Number)))
		default:
			parts = append(parts, strconv.Itoa(it.Number))
		}
	}
	parts = append(parts, next)
	return strings.Join(parts, " ")
}

func (s *feedScreen) help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Open, keys.PrevPage, keys.NextPage, keys.Create, keys.Refresh}
}
