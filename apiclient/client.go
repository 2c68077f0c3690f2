package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Alia5/padbind/apitypes"
)

// Client provides typed access to the padbind API.
type Client struct{ transport *Transport }

// New constructs a client for the API at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport settings.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using t, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

func portParams(port int) map[string]string {
	return map[string]string{"port": strconv.Itoa(port)}
}

// Ping returns the identity and version of the server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// Catalog returns the binding catalog of the server's platform.
func (c *Client) Catalog() (*apitypes.CatalogResponse, error) {
	return c.CatalogCtx(context.Background())
}

func (c *Client) CatalogCtx(ctx context.Context) (*apitypes.CatalogResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "catalog", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.CatalogResponse](raw)
}

// PadList reports all ports.
func (c *Client) PadList() (*apitypes.PadListResponse, error) {
	return c.PadListCtx(context.Background())
}

func (c *Client) PadListCtx(ctx context.Context) (*apitypes.PadListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "pad/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PadListResponse](raw)
}

// PadBinds lists every bind of port.
func (c *Client) PadBinds(port int) (*apitypes.PadBindsResponse, error) {
	return c.PadBindsCtx(context.Background(), port)
}

func (c *Client) PadBindsCtx(ctx context.Context, port int) (*apitypes.PadBindsResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "pad/{port}/binds", nil, portParams(port))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PadBindsResponse](raw)
}

// Bind operations accepted by PadBind.
const (
	BindNext    = "inc"
	BindPrev    = "dec"
	BindDefault = "default"
)

// PadBind cycles (BindNext, BindPrev) or resets (BindDefault) the bind of
// input on port. input is the lower-case input name, e.g. "l2". An empty op
// only reads the bind.
func (c *Client) PadBind(port int, input, op string) (*apitypes.PadBindResponse, error) {
	return c.PadBindCtx(context.Background(), port, input, op)
}

func (c *Client) PadBindCtx(ctx context.Context, port int, input, op string) (*apitypes.PadBindResponse, error) {
	params := portParams(port)
	params["input"] = input
	raw, err := c.transport.DoCtx(ctx, "pad/{port}/bind/{input}", op, params)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PadBindResponse](raw)
}

// PadDefaults restores the factory binds of port.
func (c *Client) PadDefaults(port int) (*apitypes.PadBindsResponse, error) {
	return c.PadDefaultsCtx(context.Background(), port)
}

func (c *Client) PadDefaultsCtx(ctx context.Context, port int) (*apitypes.PadBindsResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "pad/{port}/defaults", nil, portParams(port))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PadBindsResponse](raw)
}

// PadDpad sets the d-pad emulation of port to none, lstick or rstick.
func (c *Client) PadDpad(port int, mode string) (*apitypes.PadBindsResponse, error) {
	return c.PadDpadCtx(context.Background(), port, mode)
}

func (c *Client) PadDpadCtx(ctx context.Context, port int, mode string) (*apitypes.PadBindsResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "pad/{port}/dpad", mode, portParams(port))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PadBindsResponse](raw)
}

// Hotkeys returns the lifecycle hotkeys of the last poll.
func (c *Client) Hotkeys() (*apitypes.HotkeysResponse, error) {
	return c.HotkeysCtx(context.Background())
}

func (c *Client) HotkeysCtx(ctx context.Context) (*apitypes.HotkeysResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "hotkeys", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.HotkeysResponse](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
