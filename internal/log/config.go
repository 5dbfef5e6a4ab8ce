package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents the output format for logs
type Format int

const (
	// FormatJSON outputs logs in JSON format
	FormatJSON Format = iota
	// FormatText outputs logs in logfmt-style text
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Config holds configuration for the logger
type Config struct {
	Level  Level
	Format Format

	// Output receives log records. The terminal belongs to the UI, so the
	// CLI points this at a file rather than stdout.
	Output io.Writer

	AddSource bool

	ServiceName    string
	ServiceVersion string
}

// DefaultConfig logs info and above as JSON to stderr
func DefaultConfig() Config {
	return Config{
		Level:          LevelInfo,
		Format:         FormatJSON,
		Output:         os.Stderr,
		ServiceName:    "scribe",
		ServiceVersion: "dev",
	}
}

// DiscardConfig drops every record
func DiscardConfig() Config {
	cfg := DefaultConfig()
	cfg.Output = io.Discard
	return cfg
}

// OpenFile opens path for appending, creating its directory.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
