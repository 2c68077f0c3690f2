// Package engine owns a joypad.Driver and runs its frame loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/padbind/joypad"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("engine stopped")

// Config controls the frame loop.
type Config struct {
	FrameInterval time.Duration `help:"Time between two polls of all pads" default:"16ms" env:"PADBIND_FRAME_INTERVAL"`
}

// HotkeyFunc is called from the loop goroutine on the rising edge of a hotkey.
type HotkeyFunc func(h joypad.Hotkey)

// Engine serializes polls and every other driver access on one goroutine.
type Engine struct {
	drv      *joypad.Driver
	interval time.Duration
	logger   *slog.Logger
	onHotkey HotkeyFunc

	cmds    chan func(*joypad.Driver)
	done    chan struct{}
	frames  uint64
	pressed joypad.Key
}

func New(drv *joypad.Driver, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	iv := cfg.FrameInterval
	if iv <= 0 {
		iv = 16 * time.Millisecond
	}
	return &Engine{
		drv:      drv,
		interval: iv,
		logger:   logger,
		cmds:     make(chan func(*joypad.Driver)),
		done:     make(chan struct{}),
	}
}

// OnHotkey installs fn. It must be called before Run.
func (e *Engine) OnHotkey(fn HotkeyFunc) { e.onHotkey = fn }

// Run polls the driver every frame until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)
	defer func() {
		if err := e.drv.Close(); err != nil {
			e.logger.Warn("close driver", "error", err)
		}
	}()

	t := time.NewTicker(e.interval)
	defer t.Stop()
	e.logger.Info("engine started", "interval", e.interval, "platform", e.drv.Platform().Name)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "frames", e.frames)
			return nil
		case fn := <-e.cmds:
			fn(e.drv)
		case <-t.C:
			e.step()
		}
	}
}

func (e *Engine) step() {
	e.drv.Poll()
	e.frames++

	now := e.drv.Lifecycle()
	rising := now &^ e.pressed
	e.pressed = now
	if rising == 0 {
		return
	}
	for _, h := range joypad.Hotkeys() {
		if rising&h.Bit() == 0 {
			continue
		}
		e.logger.Debug("hotkey", "name", h.String(), "frame", e.frames)
		if e.onHotkey != nil {
			e.onHotkey(h)
		}
	}
}

// Do runs fn on the loop goroutine between two polls and waits for it.
func (e *Engine) Do(ctx context.Context, fn func(d *joypad.Driver)) error {
	finished := make(chan struct{})
	var perr error
	wrapped := func(d *joypad.Driver) {
		defer close(finished)
		defer func() {
			if r := recover(); r != nil {
				perr = fmt.Errorf("engine command: %v", r)
			}
		}()
		fn(d)
	}
	select {
	case e.cmds <- wrapped:
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return perr
}

// Frames returns the number of polls so far. Only valid inside Do.
func (e *Engine) Frames() uint64 { return e.frames }
