package joypad

import (
	"fmt"
	"strings"

	"github.com/Alia5/padbind/device/xbox360"
)

// RawState is one hardware read of a pad. Buttons and the axes follow the
// XInput layout. AnalogButtons carries the pressure bytes of pads that report
// face buttons as analog values, indexed by the XboxAnalog* constants.
type RawState struct {
	Buttons       uint32
	LT, RT        uint8
	LX, LY        int16
	RX, RY        int16
	AnalogButtons [8]uint8
}

// Analog button slots of the original Xbox pad.
const (
	XboxAnalogA = iota
	XboxAnalogB
	XboxAnalogX
	XboxAnalogY
	XboxAnalogBlack
	XboxAnalogWhite
	XboxAnalogLeftTrigger
	XboxAnalogRightTrigger
)

// triggerThreshold is the Xbox 360 trigger value above which L/R count as held.
const triggerThreshold = 128

// Platform pairs a catalog with the translation of raw reads into keys.
type Platform struct {
	Name      string
	Catalog   *Catalog
	translate func(RawState) Key
}

// Translate maps the digital part of raw onto catalog bits. Stick edges are
// added separately by the deadzone mapper.
func (p *Platform) Translate(raw RawState) Key { return p.translate(raw) }

func flag(set bool, id Input) Key {
	if set {
		return Bit(id)
	}
	return 0
}

func translateDpad(buttons uint32) Key {
	return flag(buttons&xbox360.ButtonDPadLeft != 0, Left) |
		flag(buttons&xbox360.ButtonDPadRight != 0, Right) |
		flag(buttons&xbox360.ButtonDPadUp != 0, Up) |
		flag(buttons&xbox360.ButtonDPadDown != 0, Down) |
		flag(buttons&xbox360.ButtonStart != 0, Start) |
		flag(buttons&xbox360.ButtonBack != 0, Select) |
		flag(buttons&xbox360.ButtonLThumb != 0, L3) |
		flag(buttons&xbox360.ButtonRThumb != 0, R3)
}

func translateXbox360(raw RawState) Key {
	b := raw.Buttons
	return translateDpad(b) |
		flag(b&xbox360.ButtonB != 0, A) |
		flag(b&xbox360.ButtonA != 0, B) |
		flag(b&xbox360.ButtonY != 0, X) |
		flag(b&xbox360.ButtonX != 0, Y) |
		flag(raw.LT > triggerThreshold, L) |
		flag(raw.RT > triggerThreshold, R) |
		flag(b&xbox360.ButtonLShoulder != 0, L2) |
		flag(b&xbox360.ButtonRShoulder != 0, R2)
}

func translateXbox(raw RawState) Key {
	ab := raw.AnalogButtons
	return translateDpad(raw.Buttons) |
		flag(ab[XboxAnalogB] != 0, A) |
		flag(ab[XboxAnalogA] != 0, B) |
		flag(ab[XboxAnalogY] != 0, X) |
		flag(ab[XboxAnalogX] != 0, Y) |
		flag(ab[XboxAnalogLeftTrigger] != 0, L) |
		flag(ab[XboxAnalogRightTrigger] != 0, R) |
		flag(ab[XboxAnalogWhite] != 0, L2) |
		flag(ab[XboxAnalogBlack] != 0, R2)
}

var (
	// Xbox360 reads digital face buttons and thresholds the analog triggers.
	Xbox360 = &Platform{Name: "xbox360", Catalog: Xbox360Catalog, translate: translateXbox360}
	// Xbox reads the pressure-sensitive face buttons of the original Xbox pad.
	Xbox = &Platform{Name: "xbox", Catalog: XboxCatalog, translate: translateXbox}
)

// PlatformByName returns the platform registered under name.
func PlatformByName(name string) (*Platform, error) {
	switch strings.ToLower(name) {
	case "xbox360", "":
		return Xbox360, nil
	case "xbox":
		return Xbox, nil
	default:
		return nil, fmt.Errorf("unknown platform %q", name)
	}
}

// RawFromXInput converts a 360 wire frame. The analog button bytes are
// synthesized from the digital bits and triggers so that the Xbox platform
// can be driven by the same frames.
func RawFromXInput(s xbox360.InputState) RawState {
	r := RawState{
		Buttons: s.Buttons,
		LT:      s.LT,
		RT:      s.RT,
		LX:      s.LX,
		LY:      s.LY,
		RX:      s.RX,
		RY:      s.RY,
	}
	press := func(mask uint32) uint8 {
		if s.Buttons&mask != 0 {
			return 0xff
		}
		return 0
	}
	r.AnalogButtons[XboxAnalogA] = press(xbox360.ButtonA)
	r.AnalogButtons[XboxAnalogB] = press(xbox360.ButtonB)
	r.AnalogButtons[XboxAnalogX] = press(xbox360.ButtonX)
	r.AnalogButtons[XboxAnalogY] = press(xbox360.ButtonY)
	r.AnalogButtons[XboxAnalogBlack] = press(xbox360.ButtonRShoulder)
	r.AnalogButtons[XboxAnalogWhite] = press(xbox360.ButtonLShoulder)
	r.AnalogButtons[XboxAnalogLeftTrigger] = s.LT
	r.AnalogButtons[XboxAnalogRightTrigger] = s.RT
	return r
}
