package joypad

// DefaultDeadzone is the stick threshold used when none is configured.
const DefaultDeadzone = 16000

// Deadzone turns stick deflection into synthetic d-pad edges. Values with an
// absolute deflection at or below the threshold produce no edge.
type Deadzone int16

// StickEdges holds the four directional edges derived from one stick.
type StickEdges struct {
	Left, Right, Up, Down bool
}

// Edges maps one stick. XInput reports y positive when pushed up.
func (d Deadzone) Edges(x, y int16) StickEdges {
	t := int32(d)
	return StickEdges{
		Left:  int32(x) < -t,
		Right: int32(x) > t,
		Up:    int32(y) > t,
		Down:  int32(y) < -t,
	}
}

func (e StickEdges) key(left, right, up, down Input) Key {
	var k Key
	if e.Left {
		k |= Bit(left)
	}
	if e.Right {
		k |= Bit(right)
	}
	if e.Up {
		k |= Bit(up)
	}
	if e.Down {
		k |= Bit(down)
	}
	return k
}

// Apply returns the synthetic bits for both sticks of raw.
func (d Deadzone) Apply(raw RawState) Key {
	return d.Edges(raw.LX, raw.LY).key(LeftStickDpadLeft, LeftStickDpadRight, LeftStickDpadUp, LeftStickDpadDown) |
		d.Edges(raw.RX, raw.RY).key(RightStickDpadLeft, RightStickDpadRight, RightStickDpadUp, RightStickDpadDown)
}
