// Package auth implements the optional password handshake of the API and
// the encrypted connection that follows it.
package auth

import (
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"errors"
)

const (
	KeyLength        = 16
	keyAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "padbind-key-v1"
	sessionContext   = "padbind-session-v1"
)

// ErrEmptyPassword is returned by DeriveKey for "".
var ErrEmptyPassword = errors.New("password cannot be empty")

// GenerateKey returns a random base62 password of KeyLength characters.
func GenerateKey() (string, error) {
	raw := make([]byte, KeyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	for i, b := range raw {
		raw[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(raw), nil
}

// DeriveKey stretches password to a 32 byte key.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	return pbkdf2.Key(sha256.New, password, []byte(pbkdf2Salt), pbkdf2Iterations, 32)
}

// DeriveSessionKey mixes the long-term key with both nonces.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}
