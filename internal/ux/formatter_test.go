package ux

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

type testData struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type stringerData struct{ name string }

func (s stringerData) String() string { return "stringer:" + s.name }

type rendered struct{}

func (rendered) RenderText(w io.Writer, styles Styles) error {
	_, err := fmt.Fprintf(w, "rendered nocolor=%v\n", styles.NoColor)
	return err
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"json format", "json", false},
		{"yaml format", "yaml", false},
		{"text format", "text", false},
		{"empty format defaults to text", "", false},
		{"unknown format", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(testData{Name: "test", Value: 42}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"name": "test"`) || !strings.Contains(output, `"value": 42`) {
		t.Errorf("JSON output missing expected fields: %s", output)
	}
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	formatter, _ := NewFormatter("json", &FormatterOptions{Writer: &buf, Compact: true})

	if err := formatter.Format(testData{Name: "test", Value: 1}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"name":"test","value":1}` {
		t.Errorf("compact JSON = %s", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, _ := NewFormatter("yaml", &FormatterOptions{Writer: &buf})

	if err := formatter.Format(testData{Name: "test", Value: 42}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "name: test") || !strings.Contains(output, "value: 42") {
		t.Errorf("YAML output missing expected fields: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		want    string
		wantErr bool
	}{
		{"string", "hello", "hello\n", false},
		{"stringer", stringerData{name: "x"}, "stringer:x\n", false},
		{"renderer", rendered{}, "rendered nocolor=true\n", false},
		{"unsupported", testData{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter, _ := NewFormatter("text", &FormatterOptions{Writer: &buf, NoColor: true})

			err := formatter.Format(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format() error = %v, wantErr %v", err, tt.wantErr)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestStylesTable(t *testing.T) {
	out := NewStyles(true).Table([]string{"ID", "TITLE"}, [][]string{{"1", "Hello"}, {"2", "World"}})

	for _, want := range []string{"ID", "TITLE", "Hello", "World"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table() missing %q:\n%s", want, out)
		}
	}
}
