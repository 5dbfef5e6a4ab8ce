// Package format holds the small text helpers the views share.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// WordsPerMinute is the reading speed behind EstimateReadTime
const WordsPerMinute = 200

// EstimateReadTime returns "N min read" for text, never less than one minute
func EstimateReadTime(text string) string {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// FormatDate renders t as "Jan 2, 2006"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Date renders a server timestamp like FormatDate, or its raw text when the
// server used a layout the client could not parse
func Date(ts domain.Timestamp) string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return FormatDate(ts.Time)
}

// Ago is TimeAgo for a server timestamp, falling back to its raw text
func Ago(ts domain.Timestamp, now time.Time) string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return TimeAgo(ts.Time, now)
}

var timeUnits = []struct {
	seconds int64
	name    string
}{
	{31536000, "year"},
	{2592000, "month"},
	{86400, "day"},
	{3600, "hour"},
	{60, "minute"},
}

// TimeAgo renders the distance from t to now, e.g. "3 hours ago".
// Anything under a minute, or in the future, is "Just now".
func TimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	for _, u := range timeUnits {
		n := seconds / u.seconds
		if n >= 1 {
			if n == 1 {
				return fmt.Sprintf("1 %s ago", u.name)
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	return "Just now"
}

// Initials returns up to two upper-case initials of name
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, " ") {
		r, _ := utf8.DecodeRuneInString(part)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	out := []rune(strings.ToUpper(b.String()))
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}

// Truncate shortens text to at most max runes, trimming trailing space and
// appending an ellipsis when anything was cut
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace) + "…"
}

// Count renders n with thousands separators and a pluralized noun,
// e.g. "1,204 posts"
func Count(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(n)) + " " + noun
}
