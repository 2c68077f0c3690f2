package joypad

type chord struct {
	edge     Input
	modified bool
	hotkey   Hotkey
}

// The right stick carries two meanings: with R2 held it drives save states,
// without it rewind and fast forward.
var stickChords = []chord{
	{RightStickDpadDown, false, FastForwardHold},
	{RightStickDpadUp, true, LoadState},
	{RightStickDpadDown, true, SaveState},
	{RightStickDpadRight, true, StateSlotPlus},
	{RightStickDpadLeft, true, StateSlotMinus},
	{RightStickDpadUp, false, Rewind},
}

// ResolveHotkeys derives the lifecycle mask for this cycle from port 0's
// snapshot. Every hotkey bit of prev is dropped first so hotkeys reflect the
// current frame only; other bits of prev pass through.
func ResolveHotkeys(p0 Key, mode DpadMode, prev Key) Key {
	next := prev &^ hotkeyMask

	if mode != DpadNone {
		modified := p0&Bit(R2) != 0
		for _, c := range stickChords {
			if p0&Bit(c.edge) != 0 && c.modified == modified {
				next |= c.hotkey.Bit()
			}
		}
	}

	if p0&Bit(L3) != 0 && p0&Bit(R3) != 0 {
		next |= MenuToggle.Bit()
	}
	return next
}
