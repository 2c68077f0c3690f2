// Package xbox360 defines the XInput wire frame pad streams carry.
package xbox360

// Button bitmasks in XInput order.
const (
	ButtonDPadUp    = 0x0001
	ButtonDPadDown  = 0x0002
	ButtonDPadLeft  = 0x0004
	ButtonDPadRight = 0x0008
	ButtonStart     = 0x0010
	ButtonBack      = 0x0020
	ButtonLThumb    = 0x0040 // Left stick click
	ButtonRThumb    = 0x0080 // Right stick click
	ButtonLShoulder = 0x0100 // LB
	ButtonRShoulder = 0x0200 // RB
	ButtonGuide     = 0x0400
	ButtonA         = 0x1000
	ButtonB         = 0x2000
	ButtonX         = 0x4000
	ButtonY         = 0x8000
)

// FrameSize is the encoded size of an InputState.
const FrameSize = 20
