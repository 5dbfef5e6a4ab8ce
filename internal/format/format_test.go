package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "1 min read"},
		{"whitespace only", "   \n\t ", "1 min read"},
		{"one word", "hello", "1 min read"},
		{"200 words", words(200), "1 min read"},
		{"201 words", words(201), "2 min read"},
		{"401 words", words(401), "3 min read"},
		{"mixed whitespace", "a\nb\tc   d", "1 min read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateReadTime(tt.text))
		})
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 5, 2024", FormatDate(ts))
}

func TestServerTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	parsed := domain.ParseTimestamp("2025-06-01 09:00:00")
	assert.Equal(t, "Jun 1, 2025", Date(parsed))
	assert.Equal(t, "3 hours ago", Ago(parsed, now))

	raw := domain.ParseTimestamp("some day")
	assert.Equal(t, "some day", Date(raw))
	assert.Equal(t, "some day", Ago(raw, now))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{-time.Hour, "Just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{48 * time.Hour, "2 days ago"},
		{31 * 24 * time.Hour, "1 month ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now), tt.ago.String())
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", Initials("Ada Lovelace"))
	assert.Equal(t, "GM", Initials("grace murray hopper"))
	assert.Equal(t, "A", Initials("ada"))
	assert.Equal(t, "ÉZ", Initials("émile zola"))
	assert.Equal(t, "AL", Initials("Ada  Lovelace"))
	assert.Equal(t, "", Initials(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "hello…", Truncate("hello world", 6))
	assert.Equal(t, "héllo…", Truncate("héllo wörld", 5))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1 post", Count(1, "post"))
	assert.Equal(t, "0 posts", Count(0, "post"))
	assert.Equal(t, "1,204 posts", Count(1204, "post"))
}
