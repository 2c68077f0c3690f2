// Package log builds the slog.Logger used across padbind.
//
// Without a log file, records below error go to stdout and errors go to
// stderr. With a file, everything is written to the file and mirrored to
// stderr.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug and is used for per-frame output.
const LevelTrace slog.Level = -8

// Config is the logging section of the CLI.
type Config struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"PADBIND_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"PADBIND_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every pad stream frame to this file" env:"PADBIND_LOG_RAW_FILE"`
}

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelRange passes records with min <= level < max to h.
type levelRange struct {
	min, max slog.Level
	h        slog.Handler
}

func (l levelRange) in(level slog.Level) bool { return level >= l.min && level < l.max }

func (l levelRange) Enabled(ctx context.Context, level slog.Level) bool {
	return l.in(level) && l.h.Enabled(ctx, level)
}

func (l levelRange) Handle(ctx context.Context, r slog.Record) error {
	if !l.in(r.Level) {
		return nil
	}
	return l.h.Handle(ctx, r)
}

func (l levelRange) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelRange{min: l.min, max: l.max, h: l.h.WithAttrs(attrs)}
}

func (l levelRange) WithGroup(name string) slog.Handler {
	return levelRange{min: l.min, max: l.max, h: l.h.WithGroup(name)}
}

const levelMax slog.Level = 1 << 10

func newHandlers(level slog.Level, stdout, stderr, file io.Writer) fanout {
	opts := &slog.HandlerOptions{Level: level}
	if file == nil {
		return fanout{
			levelRange{min: level, max: slog.LevelError, h: slog.NewTextHandler(stdout, opts)},
			levelRange{min: slog.LevelError, max: levelMax, h: slog.NewTextHandler(stderr, opts)},
		}
	}
	return fanout{
		slog.NewTextHandler(stderr, opts),
		slog.NewTextHandler(file, opts),
	}
}

// Setup builds the logger and raw frame logger described by cfg. The returned
// closers own any files that were opened.
func Setup(cfg Config) (*slog.Logger, RawLogger, []io.Closer, error) {
	var closers []io.Closer
	level := ParseLevel(cfg.Level)

	var file io.Writer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, f)
		file = f
	}
	logger := slog.New(newHandlers(level, os.Stdout, os.Stderr, file))

	var raw RawLogger
	switch {
	case cfg.RawFile != "":
		f, err := os.OpenFile(cfg.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cfg.RawFile, "error", err)
			raw = NewRaw(nil)
		} else {
			raw = NewRaw(f)
			closers = append(closers, f)
		}
	case level <= LevelTrace:
		raw = NewRaw(os.Stdout)
	default:
		raw = NewRaw(nil)
	}
	return logger, raw, closers, nil
}
