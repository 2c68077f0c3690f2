package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxRecord bounds a single sealed record.
const maxRecord = 64 * 1024

// Conn seals every Write into one length-prefixed chacha20poly1305 record:
// u32 length, 12 byte nonce, ciphertext. Nonces are a per-direction counter.
type Conn struct {
	net.Conn
	r    io.Reader
	aead cipher.AEAD

	wmu     sync.Mutex
	sendCtr uint64
	recvBuf bytes.Buffer
}

// WrapConn seals conn with sessionKey.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	return wrap(conn, conn, sessionKey)
}

// wrap reads records from r, which may be a buffered reader over conn that
// already holds bytes received during the handshake.
func wrap(conn net.Conn, r io.Reader, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, r: r, aead: aead}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > maxRecord {
			chunk = chunk[:maxRecord]
		}
		var nonce [chacha20poly1305.NonceSize]byte
		binary.BigEndian.PutUint64(nonce[4:], c.sendCtr)
		c.sendCtr++

		rec := make([]byte, 4, 4+len(nonce)+len(chunk)+c.aead.Overhead())
		rec = append(rec, nonce[:]...)
		rec = c.aead.Seal(rec, nonce[:], chunk, nil)
		binary.BigEndian.PutUint32(rec[:4], uint32(len(rec)-4))
		if _, err := c.Conn.Write(rec); err != nil {
			return written, err
		}
		written += len(chunk)
		p = p[len(chunk):]
	}
	return written, nil
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
			return 0, err
		}
		n := binary.BigEndian.Uint32(hdr[:])
		if n < chacha20poly1305.NonceSize || n > maxRecord+chacha20poly1305.NonceSize+uint32(c.aead.Overhead()) {
			return 0, io.ErrUnexpectedEOF
		}
		rec := make([]byte, n)
		if _, err := io.ReadFull(c.r, rec); err != nil {
			return 0, err
		}
		pt, err := c.aead.Open(nil, rec[:chacha20poly1305.NonceSize], rec[chacha20poly1305.NonceSize:], nil)
		if err != nil {
			return 0, err
		}
		c.recvBuf.Write(pt)
	}
	return c.recvBuf.Read(p)
}
