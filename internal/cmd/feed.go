package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/padbind/apiclient"
	"github.com/Alia5/padbind/device/xbox360"
)

// Feed drives one port of a running server from the keyboard.
type Feed struct {
	Addr     string        `help:"padbind API server address" default:"localhost:3243" env:"PADBIND_ADDR"`
	Port     int           `help:"Port to attach to" default:"0"`
	Password string        `help:"API password (see padbind.key.txt)" env:"PADBIND_PASSWORD"`
	Rate     time.Duration `help:"Interval between frames" default:"16ms"`
	Release  time.Duration `help:"How long a key stays held after its last repeat" default:"150ms"`
}

// control is what one key contributes to a frame.
type control struct {
	buttons        uint32
	lx, ly, rx, ry int16
	lt, rt         uint8
}

var feedKeys = map[string]control{
	"up":    {buttons: xbox360.ButtonDPadUp},
	"down":  {buttons: xbox360.ButtonDPadDown},
	"left":  {buttons: xbox360.ButtonDPadLeft},
	"right": {buttons: xbox360.ButtonDPadRight},
	"w":     {ly: 32767},
	"s":     {ly: -32768},
	"a":     {lx: -32768},
	"d":     {lx: 32767},
	"i":     {ry: 32767},
	"k":     {ry: -32768},
	"j":     {rx: -32768},
	"l":     {rx: 32767},
	"z":     {buttons: xbox360.ButtonA},
	"x":     {buttons: xbox360.ButtonB},
	"c":     {buttons: xbox360.ButtonX},
	"v":     {buttons: xbox360.ButtonY},
	"q":     {buttons: xbox360.ButtonLShoulder},
	"e":     {buttons: xbox360.ButtonRShoulder},
	"u":     {lt: 255},
	"o":     {rt: 255},
	"f":     {buttons: xbox360.ButtonLThumb},
	"h":     {buttons: xbox360.ButtonRThumb},
	"enter": {buttons: xbox360.ButtonStart},
	"back":  {buttons: xbox360.ButtonBack},
}

var escapeKeys = map[byte]string{'A': "up", 'B': "down", 'C': "right", 'D': "left"}

// parseKeys splits raw terminal input into key names. quit is set on
// Ctrl-C or a lone Esc.
func parseKeys(b []byte) (keys []string, quit bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0x03:
			return keys, true
		case c == 0x1b:
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				if k, ok := escapeKeys[b[i+2]]; ok {
					keys = append(keys, k)
				}
				i += 2
				continue
			}
			if i+1 == len(b) {
				return keys, true
			}
		case c == '\r' || c == '\n':
			keys = append(keys, "enter")
		case c == 0x7f || c == 0x08:
			keys = append(keys, "back")
		case c >= 'A' && c <= 'Z':
			keys = append(keys, string(c+'a'-'A'))
		case c > ' ' && c < 0x7f:
			keys = append(keys, string(c))
		}
	}
	return keys, false
}

// held emulates key-up events. A terminal only reports presses, so a key
// counts as down until release has passed since its last repeat.
type held struct {
	release time.Duration
	until   map[string]time.Time
}

func newHeld(release time.Duration) *held {
	return &held{release: release, until: map[string]time.Time{}}
}

func (h *held) press(key string, now time.Time) {
	if _, ok := feedKeys[key]; ok {
		h.until[key] = now.Add(h.release)
	}
}

func (h *held) active(now time.Time) []string {
	var out []string
	for k, t := range h.until {
		if now.Before(t) {
			out = append(out, k)
		} else {
			delete(h.until, k)
		}
	}
	sort.Strings(out)
	return out
}

func clampAxis(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func (h *held) state(now time.Time) xbox360.InputState {
	var st xbox360.InputState
	var lx, ly, rx, ry int32
	for _, k := range h.active(now) {
		c := feedKeys[k]
		st.Buttons |= c.buttons
		lx += int32(c.lx)
		ly += int32(c.ly)
		rx += int32(c.rx)
		ry += int32(c.ry)
		st.LT = max(st.LT, c.lt)
		st.RT = max(st.RT, c.rt)
	}
	st.LX, st.LY = clampAxis(lx), clampAxis(ly)
	st.RX, st.RY = clampAxis(rx), clampAxis(ry)
	return st
}

func feedHelp() string {
	keys := make([]string, 0, len(feedKeys))
	for k := range feedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "keys: " + strings.Join(keys, " ") + " (Esc or Ctrl-C quits)"
}

// Run attaches to the server and feeds frames until the user quits.
func (f *Feed) Run(logger *slog.Logger) error {
	if f.Rate <= 0 {
		return fmt.Errorf("rate must be positive: %s", f.Rate)
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("feed needs an interactive terminal on stdin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := apiclient.New(f.Addr)
	if f.Password != "" {
		c = apiclient.NewWithPassword(f.Addr, f.Password)
	}
	stream, err := c.OpenStream(ctx, f.Port)
	if err != nil {
		return fmt.Errorf("attach port %d: %w", f.Port, err)
	}
	defer stream.Close()
	logger.Info("Attached", "addr", f.Addr, "port", stream.Port())
	logger.Info(feedHelp())

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer func() { _ = term.Restore(fd, old) }()

	return f.loop(ctx, os.Stdin, stream.Send)
}

func (f *Feed) loop(ctx context.Context, in io.Reader, send func(*xbox360.InputState) error) error {
	input := make(chan []byte)
	go func() {
		defer close(input)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case input <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	h := newHeld(f.Release)
	ticker := time.NewTicker(f.Rate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-input:
			if !ok {
				return nil
			}
			keys, quit := parseKeys(b)
			now := time.Now()
			for _, k := range keys {
				h.press(k, now)
			}
			if quit {
				st := xbox360.InputState{}
				return send(&st)
			}
		case now := <-ticker.C:
			st := h.state(now)
			if err := send(&st); err != nil {
				return fmt.Errorf("send: %w", err)
			}
		}
	}
}
