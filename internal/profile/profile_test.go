package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/internal/profile"
	"github.com/Alia5/padbind/joypad"
)

const yamlProfile = `
pads:
  - port: 0
    dpad: rstick
    binds:
      a: Y button
      up: D-Pad Up
  - port: 2
    dpad: none
`

const tomlProfile = `
[[pads]]
port = 0
dpad = "rstick"

[pads.binds]
a = "Y button"
up = "D-Pad Up"

[[pads]]
port = 2
dpad = "none"
`

const jsonProfile = `{"pads":[
  {"port":0,"dpad":"rstick","binds":{"a":"Y button","up":"D-Pad Up"}},
  {"port":2,"dpad":"none"}
]}`

func defaults() *joypad.Bindings {
	b := joypad.NewBindings(joypad.Xbox360Catalog)
	for port := 0; port < joypad.MaxPads; port++ {
		b.Apply(port, 0, joypad.ActionSetDefaults)
	}
	return b
}

func TestParseAndApply(t *testing.T) {
	c := joypad.Xbox360Catalog
	for format, data := range map[string]string{"yaml": yamlProfile, "toml": tomlProfile, "json": jsonProfile} {
		t.Run(format, func(t *testing.T) {
			p, err := profile.Parse([]byte(data), format)
			require.NoError(t, err)
			require.Len(t, p.Pads, 2)

			b := defaults()
			require.NoError(t, p.Apply(b))

			assert.Equal(t, joypad.DpadRightStick, b.DpadMode(0))
			assert.Equal(t, c.At(int(joypad.X)).Key, b.Key(0, joypad.A))
			assert.Equal(t, c.At(int(joypad.A)).Key, b.Default(0, joypad.A))
			// Explicit binds win over the d-pad mode.
			assert.Equal(t, joypad.Bit(joypad.Up), b.Key(0, joypad.Up))
			assert.Equal(t, c.At(int(joypad.RightStickDpadDown)).Key, b.Key(0, joypad.Down))

			assert.Equal(t, joypad.DpadNone, b.DpadMode(2))
			assert.Equal(t, joypad.DpadLeftStick, b.DpadMode(1))
		})
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad port", `{"pads":[{"port":4}]}`},
		{"duplicate port", `{"pads":[{"port":1},{"port":1}]}`},
		{"bad mode", `{"pads":[{"port":0,"dpad":"rstick"},{"port":1,"dpad":"both"}]}`},
		{"bad input", `{"pads":[{"port":0,"dpad":"rstick"},{"port":1,"binds":{"guide":"A button"}}]}`},
		{"bad label", `{"pads":[{"port":0,"dpad":"rstick"},{"port":1,"binds":{"a":"Guide button"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := profile.Parse([]byte(tt.data), "json")
			require.NoError(t, err)
			b := defaults()
			assert.Error(t, p.Apply(b))
			assert.Equal(t, joypad.DpadLeftStick, b.DpadMode(0), "nothing applied")
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := profile.Parse([]byte(`{"pads":[],"extra":1}`), "json")
	assert.Error(t, err)
	_, err = profile.Parse([]byte("pads: []\nother: 1\n"), "yml")
	assert.Error(t, err)
	_, err = profile.Parse([]byte("pads = ["), "toml")
	assert.Error(t, err)
	_, err = profile.Parse(nil, "ini")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pads.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlProfile), 0o644))

	p, err := profile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rstick", p.Pads[0].Dpad)

	_, err = profile.Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestUnboundLabel(t *testing.T) {
	p, err := profile.Parse([]byte(`{"pads":[{"port":3,"binds":{"turbo":"No button"}}]}`), "json")
	require.NoError(t, err)
	b := defaults()
	require.NoError(t, p.Apply(b))
	assert.Equal(t, joypad.NoBind, b.Key(3, joypad.Turbo))
}
