// Package tui is the interactive terminal client. Screens render the state
// held by the resource hooks and contain no business logic of their own.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/log"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/session"
	"github.com/felixgeelhaar/scribe/internal/ux"
)

// PostService is the post API used by the screens
type PostService interface {
	resource.PostLister
	resource.PostGetter
	Create(ctx context.Context, req domain.CreatePostRequest) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

// Deps are the collaborators the terminal UI is built from
type Deps struct {
	Session  *session.Store
	Router   *Router
	Auth     resource.AuthService
	Posts    PostService
	Comments resource.CommentService
	Logger   *log.Logger
	PerPage  int
	NoColor  bool
}

// timeNow is replaced in tests
var timeNow = time.Now

// screen is one view of the application
type screen interface {
	init() tea.Cmd
	update(m *Model, msg tea.Msg) (screen, tea.Cmd)
	view(m *Model) string
	help() []key.Binding
	// capturesInput is true while a text field owns the keyboard
	capturesInput() bool
}

// refreshMsg is sent when a hook finished and the view should re-read it
type refreshMsg struct{}

// resultMsg reports a user action that can fail
type resultMsg struct {
	action string
	err    error
}

// Model is the Bubble Tea model of the application
type Model struct {
	ctx    context.Context
	deps   Deps
	auth   *resource.Auth
	styles ux.Styles

	route   resource.Route
	screen  screen
	spinner spinner.Model
	help    help.Model

	width    int
	height   int
	flash    string
	quitting bool
}

// New creates the model. ctx bounds every request the UI issues.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = log.DefaultLogger()
	}
	if deps.Router == nil {
		deps.Router = NewRouter(resource.RouteHome)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		auth:    resource.NewAuth(deps.Auth, deps.Session, deps.Router, deps.Logger),
		styles:  ux.NewStyles(deps.NoColor),
		spinner: sp,
		help:    help.New(),
	}
	m.route, m.screen = m.resolve(deps.Router.Current())
	return m
}

// Init starts the first screen (required by Bubble Tea)
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.screen.init(), m.spinner.Tick)
}

// Update handles messages (required by Bubble Tea)
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Logout) && m.deps.Session.IsAuthenticated() {
			return m, m.logout()
		}
		if !m.screen.capturesInput() && msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		m.flash = ""

	case resultMsg:
		if msg.err != nil {
			m.deps.Logger.WithError(msg.err).Debug("action failed", "action", msg.action)
		}
	}

	next, cmd := m.screen.update(m, msg)
	m.screen = next
	return m, tea.Batch(cmd, m.sync())
}

// sync switches screens when the router moved, applying the route guards
func (m *Model) sync() tea.Cmd {
	want := m.deps.Router.Current()
	if want == m.route {
		return nil
	}
	m.route, m.screen = m.resolve(want)
	return m.screen.init()
}

// resolve guards route and builds its screen
func (m *Model) resolve(route resource.Route) (resource.Route, screen) {
	guarded := resource.Guard(route, m.deps.Session.IsAuthenticated())
	if guarded != route {
		m.deps.Router.Navigate(guarded)
	}

	if guarded.IsAuth() {
		m.auth.ClearError()
	}

	switch guarded {
	case resource.RouteHome:
		return guarded, homeScreen{}
	case resource.RouteLogin:
		return guarded, newLoginScreen()
	case resource.RouteRegister:
		return guarded, newRegisterScreen()
	case resource.RouteFeed:
		return guarded, newFeedScreen(m)
	case resource.RouteCreatePost:
		return guarded, newCreateScreen()
	}
	if id, ok := guarded.PostID(); ok {
		return guarded, newPostScreen(m, id)
	}
	return resource.RouteNotFound, notFoundScreen{}
}

// navigate moves to route from the UI goroutine
func (m *Model) navigate(route resource.Route) tea.Cmd {
	m.deps.Router.Navigate(route)
	return m.sync()
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.auth.Logout(m.ctx)
		return refreshMsg{}
	}
}

// run performs fn off the UI goroutine and reports back with msg
func (m *Model) run(action string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{action: action, err: fn(m.ctx)}
	}
}

// View renders the application (required by Bubble Tea)
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.screen.view(m))
	if m.flash != "" {
		b.WriteString("\n" + m.styles.Success.Render(m.flash) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(append(m.screen.help(), m.globalHelp()...)))
	return b.String()
}

func (m *Model) globalHelp() []key.Binding {
	bindings := []key.Binding{keys.Quit}
	if m.deps.Session.IsAuthenticated() {
		bindings = append(bindings, keys.Logout)
	}
	return bindings
}

func (m *Model) header() string {
	title := m.styles.Title.Render("Scribe")
	sess := m.deps.Session.Snapshot()

	var who string
	switch {
	case sess.IsLoading:
		who = m.spinner.View()
	case sess.IsAuthenticated && sess.User != nil:
		who = m.styles.Accent.Render(sess.User.Name)
	default:
		who = m.styles.Subtle.Render("not signed in")
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + who
}

// banner renders an inline error for a failed request
func (m *Model) banner(msg string) string {
	if msg == "" {
		return ""
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if !m.styles.NoColor {
		box = box.BorderForeground(lipgloss.Color("196"))
	}
	return box.Render(m.styles.Error.Render(msg)) + "\n"
}

// currentUser returns the signed-in user, or nil
func (m *Model) currentUser() *domain.User {
	return m.deps.Session.User()
}
