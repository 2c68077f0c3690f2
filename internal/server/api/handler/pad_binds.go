package handler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
	apierror "github.com/Alia5/padbind/internal/server/api/error"
	"github.com/Alia5/padbind/joypad"
)

// PadBinds lists the binds of one port.
func PadBinds(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		port, err := parsePort(req)
		if err != nil {
			return err
		}
		var out apitypes.PadBindsResponse
		if err := run(req, r, func(d *joypad.Driver) { out = padBinds(d, port) }); err != nil {
			return err
		}
		return respond(res, out)
	}
}

var bindOps = map[string]joypad.Action{
	"":        0,
	"inc":     joypad.ActionIncrement,
	"next":    joypad.ActionIncrement,
	"dec":     joypad.ActionDecrement,
	"prev":    joypad.ActionDecrement,
	"default": joypad.ActionSetDefault,
}

// PadBind cycles or resets a single bind. The payload is one of inc, dec or
// default; without payload the bind is only read.
func PadBind(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		port, err := parsePort(req)
		if err != nil {
			return err
		}
		id, err := parseInput(req)
		if err != nil {
			return err
		}
		op := strings.ToLower(strings.TrimSpace(req.Payload))
		action, ok := bindOps[op]
		if !ok {
			return apierror.ErrBadRequest(fmt.Sprintf("invalid bind operation %q (want inc, dec or default)", req.Payload))
		}

		var out apitypes.PadBindResponse
		err = run(req, r, func(d *joypad.Driver) {
			if action != 0 {
				d.SetKeybinds(port, id, action)
			}
			out = apitypes.PadBindResponse{Port: port, Bind: padBind(d, port, id)}
		})
		if err != nil {
			return err
		}
		if action == 0 {
			return respond(res, out)
		}
		logger.Info("bind changed", "port", port, "input", id.String(), "label", out.Bind.Label)
		return respond(res, out)
	}
}

// PadDefaults restores the factory binds of a port, including d-pad mode
// lstick.
func PadDefaults(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		port, err := parsePort(req)
		if err != nil {
			return err
		}
		var out apitypes.PadBindsResponse
		err = run(req, r, func(d *joypad.Driver) {
			d.SetKeybinds(port, 0, joypad.ActionSetDefaults)
			out = padBinds(d, port)
		})
		if err != nil {
			return err
		}
		logger.Info("binds reset", "port", port)
		return respond(res, out)
	}
}

// PadDpad switches the d-pad emulation of a port. The payload is none,
// lstick or rstick.
func PadDpad(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		port, err := parsePort(req)
		if err != nil {
			return err
		}
		mode, err := joypad.ParseDpadMode(req.Payload)
		if err != nil {
			return apierror.ErrBadRequest(err.Error())
		}
		var out apitypes.PadBindsResponse
		err = run(req, r, func(d *joypad.Driver) {
			d.SetKeybinds(port, 0, joypad.DpadAction(mode))
			out = padBinds(d, port)
		})
		if err != nil {
			return err
		}
		logger.Info("dpad mode changed", "port", port, "mode", mode.String())
		return respond(res, out)
	}
}
