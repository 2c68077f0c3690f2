package apiclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/device/xbox360"
)

// PadStream feeds one port of the server. Close detaches the pad.
type PadStream struct {
	conn net.Conn
	port int
	mu   sync.Mutex
}

// OpenStream attaches a pad to port and returns the stream to feed it.
func (c *Client) OpenStream(ctx context.Context, port int) (*PadStream, error) {
	t := c.transport
	if t.mock != nil {
		return nil, fmt.Errorf("open stream: %w", ErrMockTransport)
	}
	line, err := requestLine("pad/{port}/stream", nil, map[string]string{"port": strconv.Itoa(port)})
	if err != nil {
		return nil, err
	}
	conn, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(line); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write: %w", err)
	}
	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	// The server writes exactly one line before it only reads.
	ack, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read attach: %w", err)
	}
	resp, err := parse[apitypes.StreamAttachResponse](ack)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return &PadStream{conn: conn, port: resp.Port}, nil
}

// Port is the port the stream is attached to.
func (s *PadStream) Port() int { return s.port }

// Send pushes one pad state.
func (s *PadStream) Send(st *xbox360.InputState) error {
	b, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Write(b)
	return err
}

func (s *PadStream) Close() error { return s.conn.Close() }
