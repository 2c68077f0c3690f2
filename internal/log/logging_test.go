package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestHandlersSplitByLevel(t *testing.T) {
	var out, errs bytes.Buffer
	logger := slog.New(newHandlers(slog.LevelDebug, &out, &errs, nil))

	logger.Log(context.Background(), LevelTrace, "hidden")
	logger.Debug("dbg")
	logger.Info("hello", "port", 1)
	logger.Error("boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "msg=dbg")
	assert.Contains(t, out.String(), "msg=hello port=1")
	assert.NotContains(t, out.String(), "boom")
	assert.Contains(t, errs.String(), "msg=boom")
	assert.NotContains(t, errs.String(), "hello")
}

func TestHandlersWithFile(t *testing.T) {
	var errs, file bytes.Buffer
	logger := slog.New(newHandlers(slog.LevelInfo, nil, &errs, &file)).With("component", "engine")
	logger.Info("started")

	assert.Contains(t, file.String(), "component=engine")
	assert.Contains(t, errs.String(), "msg=started")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)
	r.Frame(2, []byte{0x00, 0x12, 0xff})
	r.Frame(2, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "pad2 3 bytes: 00 12 ff"), lines[0])

	NewRaw(nil).Frame(0, []byte{1})
	assert.Equal(t, "0012ff", Hex([]byte{0x00, 0x12, 0xff}))
}
