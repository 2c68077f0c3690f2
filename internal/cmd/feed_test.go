package cmd

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/device/xbox360"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		keys []string
		quit bool
	}{
		{"letters", "zXw", []string{"z", "x", "w"}, false},
		{"arrows", "\x1b[A\x1b[D\x1bOB", []string{"up", "left", "down"}, false},
		{"enter and backspace", "\r\x7f", []string{"enter", "back"}, false},
		{"ctrl-c", "z\x03x", []string{"z"}, true},
		{"lone esc", "z\x1b", []string{"z"}, true},
		{"unknown escape", "\x1b[Zq", []string{"q"}, false},
		{"space ignored", " ", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, quit := parseKeys([]byte(tt.in))
			assert.Equal(t, tt.keys, keys)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestHeldState(t *testing.T) {
	base := time.Unix(1000, 0)
	h := newHeld(100 * time.Millisecond)
	h.press("z", base)
	h.press("d", base)
	h.press("u", base)
	h.press("?", base)

	st := h.state(base.Add(50 * time.Millisecond))
	assert.Equal(t, uint32(xbox360.ButtonA), st.Buttons)
	assert.Equal(t, int16(32767), st.LX)
	assert.Equal(t, uint8(255), st.LT)

	h.press("z", base.Add(80*time.Millisecond))
	st = h.state(base.Add(150 * time.Millisecond))
	assert.Equal(t, uint32(xbox360.ButtonA), st.Buttons, "repeat extends the hold")
	assert.Zero(t, st.LX)
	assert.Zero(t, st.LT)

	assert.Equal(t, xbox360.InputState{}, h.state(base.Add(time.Second)))
}

func TestHeldOpposingDirectionsCancel(t *testing.T) {
	now := time.Unix(0, 0)
	h := newHeld(time.Second)
	h.press("a", now)
	h.press("d", now)
	h.press("w", now)
	st := h.state(now)
	assert.Equal(t, int16(-1), st.LX)
	assert.Equal(t, int16(32767), st.LY)
}

type frameSink struct {
	mu     sync.Mutex
	frames []xbox360.InputState
}

func (s *frameSink) send(st *xbox360.InputState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, *st)
	return nil
}

func (s *frameSink) last() (xbox360.InputState, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return xbox360.InputState{}, 0
	}
	return s.frames[len(s.frames)-1], len(s.frames)
}

func TestFeedLoop(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()
	f := &Feed{Rate: 5 * time.Millisecond, Release: time.Second}
	sink := &frameSink{}

	done := make(chan error, 1)
	go func() { done <- f.loop(context.Background(), pr, sink.send) }()

	_, err := pw.Write([]byte("z"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		st, _ := sink.last()
		return st.Buttons == xbox360.ButtonA
	}, time.Second, 5*time.Millisecond)

	_, err = pw.Write([]byte{0x03})
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not quit")
	}
	st, _ := sink.last()
	assert.Equal(t, xbox360.InputState{}, st, "quit sends a neutral frame")
}

func TestFeedLoopStopsOnContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	f := &Feed{Rate: time.Millisecond, Release: time.Millisecond}
	sink := &frameSink{}

	done := make(chan error, 1)
	go func() { done <- f.loop(ctx, pr, sink.send) }()
	assert.Eventually(t, func() bool {
		_, n := sink.last()
		return n > 0
	}, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
