package auth_test

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api/auth"
)

func TestIsHandshake(t *testing.T) {
	ok, err := auth.IsHandshake(bufio.NewReader(bytes.NewBufferString(auth.Magic + "rest")))
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.IsHandshake(bufio.NewReader(bytes.NewBufferString("ping\x00")))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = auth.IsHandshake(bufio.NewReader(bytes.NewBufferString("pB")))
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadClientHelloErrors(t *testing.T) {
	key, err := auth.DeriveKey("secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  []byte
		status int
	}{
		{"wrong magic", []byte("HELLO"), 401},
		{"short nonce", append([]byte(auth.Magic), 1, 2, 3), 0},
		{"bad mac", append(append([]byte(auth.Magic), make([]byte, auth.NonceSize)...), make([]byte, 32)...), 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ReadClientHello(bytes.NewReader(tt.input), key)
			require.Error(t, err)
			var apiErr *apitypes.ApiError
			if tt.status == 0 {
				assert.False(t, errors.As(err, &apiErr))
				return
			}
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestWriteServerHello(t *testing.T) {
	var buf bytes.Buffer
	nonce, err := auth.WriteServerHello(&buf)
	require.NoError(t, err)
	assert.Len(t, nonce, auth.NonceSize)
	assert.Equal(t, "OK\x00", buf.String()[:3])
	assert.Equal(t, nonce, buf.Bytes()[3:])

	_, err = auth.WriteServerHello(nil)
	assert.Error(t, err)
}

func pipe(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server, err = ln.Accept()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client, server
}

func TestDialAccept(t *testing.T) {
	client, server := pipe(t)
	key, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)

	type result struct {
		conn net.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		r := bufio.NewReader(server)
		ok, err := auth.IsHandshake(r)
		if err != nil || !ok {
			done <- result{err: errors.New("no handshake")}
			return
		}
		c, err := auth.Accept(server, r, key)
		done <- result{c, err}
	}()

	cc, err := auth.Dial(client, "hunter2")
	require.NoError(t, err)
	res := <-done
	require.NoError(t, res.err)

	_, err = cc.Write([]byte("pad/list\x00"))
	require.NoError(t, err)
	got, err := bufio.NewReader(res.conn).ReadString('\x00')
	require.NoError(t, err)
	assert.Equal(t, "pad/list\x00", got)

	_, err = res.conn.Write([]byte("{}\n"))
	require.NoError(t, err)
	line, err := bufio.NewReader(cc).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "{}\n", line)
}

func TestDialWrongPassword(t *testing.T) {
	client, server := pipe(t)
	key, err := auth.DeriveKey("right")
	require.NoError(t, err)

	go func() {
		r := bufio.NewReader(server)
		_, err := auth.Accept(server, r, key)
		if err != nil {
			_, _ = server.Write([]byte(`{"status":401,"title":"Unauthorized","detail":"invalid password"}` + "\n"))
		}
		_ = server.Close()
	}()

	_, err = auth.Dial(client, "wrong")
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}
