package padnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/padbind/device/xbox360"
	"github.com/Alia5/padbind/internal/log"
	"github.com/Alia5/padbind/joypad"
)

// Serve copies 360 wire frames from r into feed until r is exhausted. A clean
// EOF on a frame boundary returns nil.
func Serve(r io.Reader, feed *Feed, raw log.RawLogger, logger *slog.Logger) error {
	var buf [xbox360.FrameSize]byte
	frames := 0
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("pad stream closed", "port", feed.Port(), "frames", frames)
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		raw.Frame(feed.Port(), buf[:])

		var st xbox360.InputState
		if err := st.UnmarshalBinary(buf[:]); err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}
		if err := feed.Push(joypad.RawFromXInput(st)); err != nil {
			return err
		}
		frames++
		logger.Log(context.Background(), log.LevelTrace, "pad frame", "port", feed.Port(), "buttons", st.Buttons)
	}
}
