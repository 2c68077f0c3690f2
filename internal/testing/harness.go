// Package testing holds helpers shared by the API and client tests.
package testing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Alia5/padbind/internal/engine"
	"github.com/Alia5/padbind/internal/server/api"
	"github.com/Alia5/padbind/joypad"
)

// StartAPIServer starts an API server on a free localhost port after register
// added the routes under test. The server is closed when the test ends.
func StartAPIServer(t *testing.T, cfg api.ServerConfig, register func(r *api.Router)) string {
	t.Helper()
	srv, err := api.New("127.0.0.1:0", cfg, slog.Default())
	if err != nil {
		t.Fatalf("api new failed: %v", err)
	}
	if register != nil {
		register(srv.Router())
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv.Addr()
}

// StartEngine runs an engine over src with a 1ms frame until the test ends.
func StartEngine(t *testing.T, src joypad.Enumerator, cfg joypad.Config) *engine.Engine {
	t.Helper()
	drv := joypad.NewDriver(src, cfg, slog.Default())
	e := engine.New(drv, engine.Config{FrameInterval: time.Millisecond}, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e
}

// Poll blocks until the engine completed at least n more frames.
func Poll(t *testing.T, e *engine.Engine, n uint64) {
	t.Helper()
	var base uint64
	if err := e.Do(context.Background(), func(*joypad.Driver) { base = e.Frames() }); err != nil {
		t.Fatalf("engine: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var now uint64
		_ = e.Do(context.Background(), func(*joypad.Driver) { now = e.Frames() })
		if now >= base+n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("engine did not advance %d frames", n)
}
