package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/format"
	"github.com/felixgeelhaar/scribe/internal/health"
	"github.com/felixgeelhaar/scribe/internal/metrics"
	"github.com/felixgeelhaar/scribe/internal/ux"
)

// timeNow is replaced in tests
var timeNow = time.Now

// sessionView is the output of the auth commands
type sessionView struct {
	Authenticated bool         `json:"authenticated" yaml:"authenticated"`
	User          *domain.User `json:"user,omitempty" yaml:"user,omitempty"`
	Storage       string       `json:"storage" yaml:"storage"`
	Message       string       `json:"message,omitempty" yaml:"message,omitempty"`
}

func (v sessionView) RenderText(w io.Writer, s ux.Styles) error {
	var b strings.Builder
	if v.Message != "" {
		b.WriteString(s.Success.Render(v.Message) + "\n")
	}
	if v.Authenticated && v.User != nil {
		fmt.Fprintf(&b, "Signed in as %s %s\n", s.Title.Render(v.User.Name), s.Subtle.Render("<"+v.User.Email+">"))
	} else {
		b.WriteString("Not signed in\n")
	}
	fmt.Fprintf(&b, "%s\n", s.Subtle.Render("session: "+v.Storage))
	_, err := io.WriteString(w, b.String())
	return err
}

// postPage is one page of the feed
type postPage struct {
	Posts []domain.Post   `json:"posts" yaml:"posts"`
	Meta  domain.PageMeta `json:"meta" yaml:"meta"`
}

func (v postPage) RenderText(w io.Writer, s ux.Styles) error {
	if len(v.Posts) == 0 {
		_, err := io.WriteString(w, s.Subtle.Render("No posts yet.")+"\n")
		return err
	}

	now := timeNow()
	rows := make([][]string, 0, len(v.Posts))
	for _, p := range v.Posts {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			format.Truncate(p.Title, 48),
			p.User.Name,
			format.Ago(p.CreatedAt, now),
			format.EstimateReadTime(p.Body),
		})
	}

	var b strings.Builder
	b.WriteString(s.Table([]string{"ID", "Title", "Author", "Posted", "Length"}, rows))
	b.WriteString("\n")
	if v.Meta.HasPages() {
		b.WriteString(renderPages(v.Meta, s) + "  ")
	}
	b.WriteString(s.Subtle.Render(format.Count(v.Meta.Total, "post")) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderPages(meta domain.PageMeta, s ux.Styles) string {
	var parts []string
	for _, item := range format.PageNumbers(meta) {
		switch {
		case item.Ellipsis:
			parts = append(parts, s.Subtle.Render("…"))
		case item.Number == meta.CurrentPage:
			parts = append(parts, s.Selected.Render("["+strconv.Itoa(item.Number)+"]"))
		default:
			parts = append(parts, strconv.Itoa(item.Number))
		}
	}
	return "Page " + strings.Join(parts, " ")
}

// postDetail is a post with its comments
type postDetail struct {
	Post     domain.Post      `json:"post" yaml:"post"`
	Comments []domain.Comment `json:"comments" yaml:"comments"`
}

func (v postDetail) RenderText(w io.Writer, s ux.Styles) error {
	var b strings.Builder
	b.WriteString(s.Title.Render(v.Post.Title) + "\n")
	fmt.Fprintf(&b, "%s\n\n", s.Subtle.Render(fmt.Sprintf("by %s · %s · %s",
		v.Post.User.Name, format.Date(v.Post.CreatedAt), format.EstimateReadTime(v.Post.Body))))
	b.WriteString(v.Post.Body + "\n\n")
	b.WriteString(s.Header.Render(format.Count(len(v.Comments), "comment")) + "\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return commentList{Comments: v.Comments}.render(w, s)
}

// commentList is the comments of one post
type commentList struct {
	PostID   int64            `json:"post_id" yaml:"post_id"`
	Comments []domain.Comment `json:"comments" yaml:"comments"`
}

func (v commentList) RenderText(w io.Writer, s ux.Styles) error {
	if len(v.Comments) == 0 {
		_, err := io.WriteString(w, s.Subtle.Render("No comments yet.")+"\n")
		return err
	}
	return v.render(w, s)
}

func (v commentList) render(w io.Writer, s ux.Styles) error {
	now := timeNow()
	var b strings.Builder
	for _, c := range v.Comments {
		fmt.Fprintf(&b, "%s %s %s\n",
			s.Accent.Render("["+format.Initials(c.User.Name)+"]"),
			c.User.Name,
			s.Subtle.Render(fmt.Sprintf("#%d · %s", c.ID, format.Ago(c.CreatedAt, now))))
		fmt.Fprintf(&b, "  %s\n", c.Body)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// message is a one-line confirmation
type message struct {
	Message string `json:"message" yaml:"message"`
	ID      int64  `json:"id,omitempty" yaml:"id,omitempty"`
}

func (v message) RenderText(w io.Writer, s ux.Styles) error {
	_, err := io.WriteString(w, s.Success.Render(v.Message)+"\n")
	return err
}

// doctorReport is the output of 'scribe debug doctor'
type doctorReport struct {
	Status health.Status             `json:"status" yaml:"status"`
	Checks map[string]*health.Result `json:"checks" yaml:"checks"`
}

func (v doctorReport) RenderText(w io.Writer, s ux.Styles) error {
	rows := make([][]string, 0, len(v.Checks))
	for _, name := range health.SortedNames(v.Checks) {
		r := v.Checks[name]
		rows = append(rows, []string{name, statusStyle(r.Status, s).Render(r.Status.String()), r.Message, r.Latency.Round(time.Millisecond).String()})
	}
	var b strings.Builder
	b.WriteString(s.Table([]string{"Check", "Status", "Message", "Latency"}, rows))
	fmt.Fprintf(&b, "\nOverall: %s\n", statusStyle(v.Status, s).Render(v.Status.String()))
	_, err := io.WriteString(w, b.String())
	return err
}

func statusStyle(status health.Status, s ux.Styles) interface{ Render(...string) string } {
	switch status {
	case health.StatusHealthy:
		return s.Success
	case health.StatusDegraded:
		return s.Warning
	default:
		return s.Error
	}
}

// metricsView lists the samples gathered during a command
type metricsView struct {
	Samples []metrics.Sample `json:"samples" yaml:"samples"`
}

func (v metricsView) RenderText(w io.Writer, s ux.Styles) error {
	rows := make([][]string, 0, len(v.Samples))
	for _, sample := range v.Samples {
		rows = append(rows, []string{sample.String(), strconv.FormatFloat(sample.Value, 'g', -1, 64)})
	}
	_, err := io.WriteString(w, s.Table([]string{"Series", "Value"}, rows)+"\n")
	return err
}
