package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Alia5/padbind/internal/server/api/auth"
	apierror "github.com/Alia5/padbind/internal/server/api/error"
)

// Server is the line based TCP API. Requests are `<path>[ <payload>]\x00`,
// responses a single JSON line.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
	key    []byte

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a server for addr. A non-empty config.Password enables the
// auth handshake.
func New(addr string, config ServerConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Server{
		addr:   addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
	if config.Password != "" {
		key, err := auth.DeriveKey(config.Password)
		if err != nil {
			return nil, fmt.Errorf("derive api key: %w", err)
		}
		a.key = key
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a, nil
}

// Router returns the router so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the bound address once Start succeeded.
func (a *Server) Addr() string {
	if a.ln == nil {
		return a.addr
	}
	return a.ln.Addr().String()
}

// Start listens on the configured address and serves in the background.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String(), "auth", a.key != nil)
	a.wg.Add(1)
	go a.serve()
	return nil
}

// Close stops accepting, cancels streams and waits for open connections.
func (a *Server) Close() {
	a.cancel()
	if a.ln != nil {
		_ = a.ln.Close()
	}
	a.wg.Wait()
}

func (a *Server) serve() {
	defer a.wg.Done()
	for {
		c, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
			} else {
				a.logger.Error("API accept error", "error", err)
			}
			return
		}
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.handleConn(c)
		}()
	}
}

func writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(apierror.WrapError(err))
	fmt.Fprintf(w, "%s\n", problemJSON)
}

func writeOK(w io.Writer, body string) {
	fmt.Fprintf(w, "%s\n", body)
}

// bufferedConn reads through r so bytes buffered while parsing the request
// reach the stream handler.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) { return c.r.Read(p) }

// splitRequest separates the path from the payload at the first whitespace.
func splitRequest(req string) (path, payload string) {
	i := strings.IndexFunc(req, unicode.IsSpace)
	if i < 0 {
		return req, ""
	}
	return req[:i], req[i+1:]
}

func (a *Server) authenticate(conn net.Conn, r *bufio.Reader) (net.Conn, *bufio.Reader, error) {
	if a.key == nil {
		return conn, r, nil
	}
	// Requests shorter than the magic peek as an error; they cannot be
	// handshakes.
	if ok, err := auth.IsHandshake(r); err != nil || !ok {
		if a.config.RequireAuth {
			return nil, nil, apierror.ErrUnauthorized("authentication required")
		}
		return conn, r, nil
	}
	sealed, err := auth.Accept(conn, r, a.key)
	if err != nil {
		return nil, nil, err
	}
	return sealed, bufio.NewReader(sealed), nil
}

func (a *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	connLogger := a.logger.With("remote", conn.RemoteAddr().String())

	if a.config.ConnectionTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(a.config.ConnectionTimeout))
	}

	w, r, err := a.authenticate(conn, bufio.NewReader(conn))
	if err != nil {
		connLogger.Warn("api auth failed", "error", err)
		writeError(conn, err)
		return
	}

	reqData, err := r.ReadString('\x00')
	if err != nil {
		if errors.Is(err, io.EOF) {
			connLogger.Error("api incomplete request (no null terminator)")
		} else {
			connLogger.Error("read api data", "error", err)
		}
		return
	}
	path, payload := splitRequest(strings.TrimSuffix(reqData, "\x00"))
	if path == "" {
		connLogger.Error("api empty path")
		writeError(w, apierror.ErrBadRequest("empty path"))
		return
	}
	path = strings.ToLower(path)
	connLogger.Debug("api cmd", "path", path)

	if h, params := a.router.Match(path); h != nil {
		req := &Request{Ctx: ctx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("api handler error", "path", path, "error", err)
			writeError(w, err)
			return
		}
		writeOK(w, res.JSON)
		return
	}

	if sh, params := a.router.MatchStream(path); sh != nil {
		_ = conn.SetReadDeadline(time.Time{})
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		defer stop()

		connLogger.Info("api stream begin", "path", path)
		req := &Request{Ctx: ctx, Params: params, Payload: payload}
		if err := sh(req, &bufferedConn{Conn: w, r: r}, connLogger); err != nil {
			connLogger.Error("api stream handler error", "path", path, "error", err)
		}
		connLogger.Info("api stream end", "path", path)
		return
	}

	connLogger.Error("api unknown path", "path", path)
	writeError(w, apierror.ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}
