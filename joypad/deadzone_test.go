package joypad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padbind/joypad"
)

func TestDeadzoneEdges(t *testing.T) {
	dz := joypad.Deadzone(joypad.DefaultDeadzone)
	const T = joypad.DefaultDeadzone

	tests := []struct {
		name string
		x, y int16
		want joypad.StickEdges
	}{
		{"center", 0, 0, joypad.StickEdges{}},
		{"at threshold", T, T, joypad.StickEdges{}},
		{"at negative threshold", -T, -T, joypad.StickEdges{}},
		{"just past right", T + 1, 0, joypad.StickEdges{Right: true}},
		{"just past left", -(T + 1), 0, joypad.StickEdges{Left: true}},
		{"just past up", 0, T + 1, joypad.StickEdges{Up: true}},
		{"just past down", 0, -(T + 1), joypad.StickEdges{Down: true}},
		{"full diagonal", 32767, -32768, joypad.StickEdges{Right: true, Down: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dz.Edges(tt.x, tt.y))
		})
	}
}

func TestDeadzoneNeverFiresBothDirections(t *testing.T) {
	dz := joypad.Deadzone(joypad.DefaultDeadzone)
	for v := -32768; v <= 32767; v += 97 {
		e := dz.Edges(int16(v), int16(v))
		assert.False(t, e.Left && e.Right, "x=%d", v)
		assert.False(t, e.Up && e.Down, "y=%d", v)
	}
}

func TestDeadzoneApply(t *testing.T) {
	dz := joypad.Deadzone(100)
	k := dz.Apply(joypad.RawState{LX: -101, LY: 50, RX: 0, RY: 101})
	assert.Equal(t, joypad.Bit(joypad.LeftStickDpadLeft)|joypad.Bit(joypad.RightStickDpadUp), k)

	assert.Equal(t, joypad.NoBind, dz.Apply(joypad.RawState{LX: 100, LY: -100, RX: -100, RY: 100}))
}
