package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records pad stream frames as they arrive.
type RawLogger interface {
	Frame(port int, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw returns a RawLogger writing to w. A nil writer discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Frame writes one line: timestamp, port, length and hex payload.
func (r *rawLogger) Frame(port int, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}
	line := fmt.Sprintf("%s pad%d %d bytes: % x\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		port,
		len(data),
		data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}

// Hex is a compact hex form of a frame for structured log attributes.
func Hex(data []byte) string { return hex.EncodeToString(data) }
