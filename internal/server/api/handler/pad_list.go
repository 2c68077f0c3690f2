package handler

import (
	"log/slog"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
	"github.com/Alia5/padbind/joypad"
)

// PadList reports every port with its attachment, d-pad mode and last
// snapshot.
func PadList(r Runner, src joypad.Enumerator) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		attached := src.ConnectedPorts()
		out := apitypes.PadListResponse{Pads: make([]apitypes.Pad, 0, joypad.MaxPads)}
		err := run(req, r, func(d *joypad.Driver) {
			out.Connected = d.Connected()
			for port := 0; port < joypad.MaxPads; port++ {
				out.Pads = append(out.Pads, apitypes.Pad{
					Port:      port,
					Connected: attached.Has(port),
					DpadMode:  d.Bindings().DpadMode(port).String(),
					Snapshot:  uint64(d.Snapshot(port)),
				})
			}
		})
		if err != nil {
			return err
		}
		return respond(res, out)
	}
}
