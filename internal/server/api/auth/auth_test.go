package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padbind/internal/server/api/auth"
)

func TestGenerateKey(t *testing.T) {
	key, err := auth.GenerateKey()
	assert.NoError(t, err)
	assert.Len(t, key, auth.KeyLength)
	assert.Regexp(t, "^[0-9A-Za-z]{16}$", key)

	other, err := auth.GenerateKey()
	assert.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []byte
		wantErr  error
	}{
		{
			name:     "normal password",
			password: "password123",
			want:     []byte{0x98, 0x85, 0xb0, 0xaa, 0x8e, 0xac, 0xd4, 0x74, 0xe5, 0x1f, 0xb5, 0xf8, 0xa3, 0x7c, 0x9d, 0x29, 0xa3, 0x3f, 0x7a, 0xb2, 0xd3, 0x91, 0xa6, 0xf4, 0xb0, 0x20, 0x46, 0x36, 0x9c, 0x2a, 0xab, 0x22},
		},
		{
			name:     "single char",
			password: "1",
			want:     []byte{0xa4, 0xe8, 0x4c, 0xae, 0xea, 0xc7, 0xae, 0x24, 0xf0, 0x94, 0xeb, 0x9e, 0xeb, 0x5f, 0x92, 0x26, 0xb0, 0xd2, 0x69, 0xa6, 0xc5, 0xe1, 0x84, 0x40, 0xc6, 0x0a, 0x8b, 0xeb, 0x22, 0xdd, 0x58, 0x2f},
		},
		{
			name:     "empty",
			password: "",
			wantErr:  auth.ErrEmptyPassword,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.DeriveKey(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSessionKey(t *testing.T) {
	key := make([]byte, 32)
	sn := make([]byte, 32)
	cn := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
		sn[i] = byte(i + 10)
		cn[i] = byte(i + 20)
	}

	a := auth.DeriveSessionKey(key, sn, cn)
	assert.Len(t, a, 32)
	assert.Equal(t, a, auth.DeriveSessionKey(key, sn, cn))

	cn[0] = 99
	assert.NotEqual(t, a, auth.DeriveSessionKey(key, sn, cn))
}
