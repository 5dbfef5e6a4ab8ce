package log

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/scribe/internal/errors"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Output = &buf
	return New(cfg), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", "key", "value")
	entry := decodeLine(t, buf)
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "scribe", entry["service"])
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = FormatText
	cfg.Output = &buf

	New(cfg).Info("hello", "page", 2)
	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "page=2")
}

func TestWithErrorCoded(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	err := errors.NewStorageWriteError("/tmp/session.json", stderrors.New("read-only file system"))
	logger.WithError(err).Error("persist failed")

	entry := decodeLine(t, buf)
	assert.Equal(t, "STORE-002", entry["error_code"])
	assert.Equal(t, "local", entry["error_kind"])
	assert.Equal(t, "read-only file system", entry["cause"])
}

func TestWithErrorAPI(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	err := &errors.APIError{StatusCode: 404, Message: "Post not found", RequestID: "req-9"}
	logger.WithError(err).Warn("load failed")

	entry := decodeLine(t, buf)
	assert.Equal(t, "not_found", entry["error_kind"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "req-9", entry["request_id"])
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelDebug)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.LogError(context.Background(), "request failed", &errors.NetworkError{
		Method: "GET", URL: "http://127.0.0.1:8001/api/v1/posts", Cause: stderrors.New("connection refused"),
	})

	entry := decodeLine(t, buf)
	assert.Equal(t, "request failed", entry["msg"])
	assert.Equal(t, "network", entry["error_kind"])
	assert.Equal(t, errors.MsgNetwork, entry["user_message"])
	assert.Equal(t, "ERROR", entry["level"])

	buf.Reset()
	logger.LogError(context.Background(), "ignored", nil)
	assert.Empty(t, buf.String())
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))

	assert.Equal(t, FormatText, ParseFormat("console"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
	assert.Equal(t, "text", FormatText.String())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scribe.log")

	f, err := OpenFile(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Output = f
	New(cfg).Info("written")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"written"`))
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	first := DefaultLogger()
	require.NotNil(t, first)
	assert.Same(t, first, DefaultLogger())

	custom := Discard()
	SetDefaultLogger(custom)
	assert.Same(t, custom, DefaultLogger())
	SetDefaultLogger(nil)
}
