// Package joypad normalizes XInput-style controller hardware into one 64-bit
// composite state per port, keeps the per-port logical to physical binding
// table and derives lifecycle hotkeys from port 0.
package joypad

import (
	"fmt"
	"strings"
)

// MaxPads is the number of logical ports.
const MaxPads = 4

// Key is a physical key mask. It may hold a single bit or a composite of
// several bits, in which case any of them matches.
type Key uint64

// NoBind marks an unassigned binding.
const NoBind Key = 0

// Input identifies a logical input. Values double as bit positions in a
// snapshot and as catalog indices.
type Input uint8

const (
	B Input = iota
	Y
	Select
	Start
	Up
	Down
	Left
	Right
	A
	X
	L
	R
	L2
	R2
	L3
	R3

	Turbo

	AnalogLeftXPlus
	AnalogLeftXMinus
	AnalogLeftYPlus
	AnalogLeftYMinus
	AnalogRightXPlus
	AnalogRightXMinus
	AnalogRightYPlus
	AnalogRightYMinus

	// Synthetic directions produced by the deadzone mapper.
	LeftStickDpadLeft
	LeftStickDpadRight
	LeftStickDpadUp
	LeftStickDpadDown
	RightStickDpadLeft
	RightStickDpadRight
	RightStickDpadUp
	RightStickDpadDown

	InputCount
)

var inputNames = [InputCount]string{
	"b", "y", "select", "start", "up", "down", "left", "right",
	"a", "x", "l", "r", "l2", "r2", "l3", "r3",
	"turbo",
	"lstick_x_plus", "lstick_x_minus", "lstick_y_plus", "lstick_y_minus",
	"rstick_x_plus", "rstick_x_minus", "rstick_y_plus", "rstick_y_minus",
	"lstick_dpad_left", "lstick_dpad_right", "lstick_dpad_up", "lstick_dpad_down",
	"rstick_dpad_left", "rstick_dpad_right", "rstick_dpad_up", "rstick_dpad_down",
}

func (i Input) String() string {
	if i < InputCount {
		return inputNames[i]
	}
	return fmt.Sprintf("input(%d)", uint8(i))
}

// ParseInput resolves a name produced by Input.String. Matching is
// case-insensitive.
func ParseInput(name string) (Input, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range inputNames {
		if s == n {
			return Input(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input %q", name)
}

// Bit returns the single-bit key for id.
func Bit(id Input) Key { return 1 << uint(id) }

// Hotkey is a lifecycle pseudo-input. Hotkeys share the id space with Input
// and start right after the last bindable input.
type Hotkey uint8

const (
	FastForwardHold Hotkey = Hotkey(InputCount) + iota
	LoadState
	SaveState
	Quit
	StateSlotPlus
	StateSlotMinus
	Rewind
	MenuToggle

	hotkeyEnd
)

var hotkeyNames = [...]string{
	"fast_forward_hold", "load_state", "save_state", "quit",
	"state_slot_plus", "state_slot_minus", "rewind", "menu_toggle",
}

// Hotkeys lists every lifecycle hotkey in id order.
func Hotkeys() []Hotkey {
	out := make([]Hotkey, 0, len(hotkeyNames))
	for h := FastForwardHold; h < hotkeyEnd; h++ {
		out = append(out, h)
	}
	return out
}

func (h Hotkey) String() string {
	if h >= FastForwardHold && h < hotkeyEnd {
		return hotkeyNames[h-FastForwardHold]
	}
	return fmt.Sprintf("hotkey(%d)", uint8(h))
}

// Bit returns the lifecycle mask bit for h.
func (h Hotkey) Bit() Key { return 1 << uint(h) }

// hotkeyMask covers every lifecycle bit owned by the resolver.
var hotkeyMask = func() Key {
	var m Key
	for _, h := range Hotkeys() {
		m |= h.Bit()
	}
	return m
}()

// DpadMode selects which stick, if any, drives the d-pad bindings of a port.
type DpadMode uint8

const (
	DpadNone DpadMode = iota
	DpadLeftStick
	DpadRightStick
)

func (m DpadMode) String() string {
	switch m {
	case DpadNone:
		return "none"
	case DpadLeftStick:
		return "lstick"
	case DpadRightStick:
		return "rstick"
	default:
		return fmt.Sprintf("dpadmode(%d)", uint8(m))
	}
}

// ParseDpadMode accepts the names produced by DpadMode.String.
func ParseDpadMode(s string) (DpadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return DpadNone, nil
	case "lstick", "left", "leftstick":
		return DpadLeftStick, nil
	case "rstick", "right", "rightstick":
		return DpadRightStick, nil
	default:
		return DpadNone, fmt.Errorf("unknown dpad mode %q", s)
	}
}

// PortSet is a bit set of port indices.
type PortSet uint32

// Has reports whether port is in the set.
func (s PortSet) Has(port int) bool { return port >= 0 && port < 32 && s&(1<<uint(port)) != 0 }

// With returns s with port added.
func (s PortSet) With(port int) PortSet { return s | 1<<uint(port) }

// Without returns s with port removed.
func (s PortSet) Without(port int) PortSet { return s &^ (1 << uint(port)) }

// Len returns the number of ports in the set.
func (s PortSet) Len() int {
	n := 0
	for ; s != 0; s &= s - 1 {
		n++
	}
	return n
}

func checkPort(port int) {
	if port < 0 || port >= MaxPads {
		panic(fmt.Sprintf("joypad: port %d out of range [0,%d)", port, MaxPads))
	}
}

func checkInput(id Input) {
	if id >= InputCount {
		panic(fmt.Sprintf("joypad: input %d out of range [0,%d)", id, InputCount))
	}
}
