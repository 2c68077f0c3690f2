package handler

import (
	"log/slog"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
	"github.com/Alia5/padbind/joypad"
)

// Hotkeys reports the lifecycle mask of the last poll.
func Hotkeys(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		out := apitypes.HotkeysResponse{Pressed: []string{}}
		err := run(req, r, func(d *joypad.Driver) {
			out.Lifecycle = uint64(d.Lifecycle())
			for _, h := range joypad.Hotkeys() {
				if d.KeyPressed(h) {
					out.Pressed = append(out.Pressed, h.String())
				}
			}
		})
		if err != nil {
			return err
		}
		return respond(res, out)
	}
}
