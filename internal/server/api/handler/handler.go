// Package handler implements the API routes over a running engine.
//
// Error logging is centralized in the API server; handlers only return
// errors.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
	apierror "github.com/Alia5/padbind/internal/server/api/error"
	"github.com/Alia5/padbind/joypad"
)

// Runner executes fn with exclusive access to the driver.
type Runner interface {
	Do(ctx context.Context, fn func(d *joypad.Driver)) error
}

func parsePort(req *api.Request) (int, error) {
	s, ok := req.Params["port"]
	if !ok {
		return 0, apierror.ErrBadRequest("missing port parameter")
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, apierror.ErrBadRequest(fmt.Sprintf("invalid port: %v", err))
	}
	if port < 0 || port >= joypad.MaxPads {
		return 0, apierror.ErrNotFound(fmt.Sprintf("port %d not found", port))
	}
	return port, nil
}

func parseInput(req *api.Request) (joypad.Input, error) {
	id, err := joypad.ParseInput(req.Params["input"])
	if err != nil {
		return 0, apierror.ErrNotFound(err.Error())
	}
	return id, nil
}

func run(req *api.Request, r Runner, fn func(d *joypad.Driver)) error {
	if err := r.Do(req.Ctx, fn); err != nil {
		return apierror.ErrInternal(fmt.Sprintf("engine: %v", err))
	}
	return nil
}

func respond(res *api.Response, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(out)
	return nil
}

func padBind(d *joypad.Driver, port int, id joypad.Input) apitypes.PadBind {
	b := d.Bindings()
	k, def := b.Key(port, id), b.Default(port, id)
	return apitypes.PadBind{
		Input:        id.String(),
		Key:          uint64(k),
		Label:        d.DescribeKey(k),
		Default:      uint64(def),
		DefaultLabel: d.DescribeKey(def),
		Pressed:      d.State(port, id),
	}
}

func padBinds(d *joypad.Driver, port int) apitypes.PadBindsResponse {
	out := apitypes.PadBindsResponse{
		Port:     port,
		DpadMode: d.Bindings().DpadMode(port).String(),
		Binds:    make([]apitypes.PadBind, 0, joypad.InputCount),
	}
	for id := joypad.Input(0); id < joypad.InputCount; id++ {
		out.Binds = append(out.Binds, padBind(d, port, id))
	}
	return out
}
