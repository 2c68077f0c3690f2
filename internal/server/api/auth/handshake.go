package auth

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/Alia5/padbind/apitypes"
	apierror "github.com/Alia5/padbind/internal/server/api/error"
)

// Handshake layout:
//
//	client: Magic | client nonce[32] | HMAC-SHA256(key, authContext|nonce)
//	server: "OK\x00" | server nonce[32]   or a problem+json line
const (
	Magic       = "pBnd\x00"
	NonceSize   = 32
	authContext = "padbind-auth-v1"
	okPrefix    = "OK\x00"
)

func clientMAC(key, nonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(authContext))
	_, _ = mac.Write(nonce)
	return mac.Sum(nil)
}

func newNonce() ([]byte, error) {
	n := make([]byte, NonceSize)
	if _, err := rand.Read(n); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return n, nil
}

// IsHandshake peeks at r and reports whether a handshake starts there.
func IsHandshake(r *bufio.Reader) (bool, error) {
	b, err := r.Peek(len(Magic))
	if err != nil {
		return false, err
	}
	return string(b) == Magic, nil
}

// ReadClientHello consumes the client half of the handshake from r and
// verifies its MAC against key. It returns the client nonce.
func ReadClientHello(r io.Reader, key []byte) ([]byte, error) {
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return nil, apierror.ErrUnauthorized("authentication required")
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("read client nonce: %w", err)
	}
	sum := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, sum); err != nil {
		return nil, fmt.Errorf("read client auth: %w", err)
	}
	if !hmac.Equal(sum, clientMAC(key, nonce)) {
		return nil, apierror.ErrUnauthorized("invalid password")
	}
	return nonce, nil
}

// WriteServerHello answers a verified client with a fresh server nonce.
func WriteServerHello(w io.Writer) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("write server hello: nil writer")
	}
	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(append([]byte(okPrefix), nonce...)); err != nil {
		return nil, fmt.Errorf("write server hello: %w", err)
	}
	return nonce, nil
}

// Accept runs the server side of the handshake on conn and returns the sealed
// connection. r must be the reader the caller peeked the magic with.
func Accept(conn net.Conn, r *bufio.Reader, key []byte) (net.Conn, error) {
	clientNonce, err := ReadClientHello(r, key)
	if err != nil {
		return nil, err
	}
	serverNonce, err := WriteServerHello(conn)
	if err != nil {
		return nil, err
	}
	return wrap(conn, r, DeriveSessionKey(key, serverNonce, clientNonce))
}

// Dial runs the client side of the handshake on conn and returns the sealed
// connection. A rejected password comes back as an *apitypes.ApiError.
func Dial(conn net.Conn, password string) (net.Conn, error) {
	key, err := DeriveKey(password)
	if err != nil {
		return nil, err
	}
	clientNonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	hello := append([]byte(Magic), clientNonce...)
	hello = append(hello, clientMAC(key, clientNonce)...)
	if _, err := conn.Write(hello); err != nil {
		return nil, fmt.Errorf("write client hello: %w", err)
	}

	r := bufio.NewReader(conn)
	prefix := make([]byte, len(okPrefix))
	if _, err := io.ReadFull(r, prefix); err != nil {
		if err == io.EOF {
			return nil, apierror.ErrUnauthorized("connection closed during handshake")
		}
		return nil, fmt.Errorf("read server hello: %w", err)
	}
	if string(prefix) != okPrefix {
		rest, _ := io.ReadAll(r)
		line := strings.TrimSuffix(string(append(prefix, rest...)), "\n")
		var apiErr apitypes.ApiError
		if err := json.Unmarshal([]byte(line), &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
			return nil, &apiErr
		}
		return nil, fmt.Errorf("invalid server hello: %q", line)
	}
	serverNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, serverNonce); err != nil {
		return nil, fmt.Errorf("read server nonce: %w", err)
	}
	return wrap(conn, r, DeriveSessionKey(key, serverNonce, clientNonce))
}
