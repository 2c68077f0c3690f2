package api

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Request contains route parameters and the payload that followed the path.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response. The logger is
// connection scoped.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc takes ownership of a long-lived connection. req.Ctx is
// cancelled when the server shuts down. A returned error is logged by the
// server.
type StreamHandlerFunc func(req *Request, conn net.Conn, logger *slog.Logger) error

type route[H any] struct {
	parts   []string
	names   []string
	handler H
}

func newRoute[H any](pattern string, h H) route[H] {
	orig := strings.Split(pattern, "/")
	rt := route[H]{parts: make([]string, len(orig)), names: make([]string, len(orig)), handler: h}
	for i, p := range orig {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			rt.names[i] = p[1 : len(p)-1]
			continue
		}
		rt.parts[i] = strings.ToLower(p)
	}
	return rt
}

func (rt route[H]) match(parts []string) (map[string]string, bool) {
	if len(rt.parts) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range parts {
		if rt.names[i] != "" {
			params[rt.names[i]] = p
			continue
		}
		if rt.parts[i] != p {
			return nil, false
		}
	}
	return params, true
}

// Router matches slash separated paths against patterns with {name}
// placeholders. Literal segments compare case-insensitively.
type Router struct {
	routes       []route[HandlerFunc]
	streamRoutes []route[StreamHandlerFunc]
}

func NewRouter() *Router { return &Router{} }

// Register adds a request/response handler for a pattern like "pad/{port}/binds".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, newRoute(pattern, handler))
}

// RegisterStream adds a handler that keeps the connection.
func (r *Router) RegisterStream(pattern string, handler StreamHandlerFunc) {
	r.streamRoutes = append(r.streamRoutes, newRoute(pattern, handler))
}

// Match returns the first handler registered for path and its params.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.routes {
		if params, ok := rt.match(parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

// MatchStream is Match for stream routes.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.streamRoutes {
		if params, ok := rt.match(parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}
