package padnet_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/device/xbox360"
	"github.com/Alia5/padbind/internal/log"
	"github.com/Alia5/padbind/internal/padnet"
)

func frame(t *testing.T, s xbox360.InputState) []byte {
	t.Helper()
	b, err := s.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestServe(t *testing.T) {
	e := padnet.New()
	f, err := e.Attach(2)
	require.NoError(t, err)

	var in bytes.Buffer
	in.Write(frame(t, xbox360.InputState{Buttons: xbox360.ButtonA}))
	in.Write(frame(t, xbox360.InputState{Buttons: xbox360.ButtonY, LT: 200, LY: 30000}))

	var dump bytes.Buffer
	err = padnet.Serve(&in, f, log.NewRaw(&dump), slog.Default())
	require.NoError(t, err)

	st, err := e.ReadRawState(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(xbox360.ButtonY), st.Buttons)
	assert.Equal(t, uint8(200), st.LT)
	assert.Equal(t, int16(30000), st.LY)
	assert.Equal(t, 2, bytes.Count(dump.Bytes(), []byte("pad2 20 bytes")))
}

func TestServeTruncatedFrame(t *testing.T) {
	e := padnet.New()
	f, err := e.Attach(0)
	require.NoError(t, err)

	err = padnet.Serve(bytes.NewReader(make([]byte, 7)), f, log.NewRaw(nil), slog.Default())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestServeAfterDetach(t *testing.T) {
	e := padnet.New()
	f, err := e.Attach(0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = padnet.Serve(bytes.NewReader(frame(t, xbox360.InputState{})), f, log.NewRaw(nil), slog.Default())
	assert.Error(t, err)
}
