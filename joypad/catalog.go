package joypad

// Bind pairs a physical key with a human readable label.
type Bind struct {
	Key   Key
	Label string
}

// Catalog is the ordered list of physical keys a platform offers. Entry i is
// the factory default for Input(i); the order also defines rebind cycling.
type Catalog struct {
	binds []Bind
}

const (
	labelNoBind  = "No button"
	labelUnknown = "Unknown"
)

// NewCatalog copies binds into an immutable catalog.
func NewCatalog(binds []Bind) *Catalog {
	c := &Catalog{binds: make([]Bind, len(binds))}
	copy(c.binds, binds)
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.binds) }

// At returns entry i.
func (c *Catalog) At(i int) Bind { return c.binds[i] }

// Binds returns a copy of all entries in order.
func (c *Catalog) Binds() []Bind {
	out := make([]Bind, len(c.binds))
	copy(out, c.binds)
	return out
}

// Index returns the position of the first entry whose key equals k.
func (c *Catalog) Index(k Key) (int, bool) {
	for i, b := range c.binds {
		if b.Key == k {
			return i, true
		}
	}
	return 0, false
}

// Label describes k using the first matching entry.
func (c *Catalog) Label(k Key) string {
	if k == NoBind {
		return labelNoBind
	}
	if i, ok := c.Index(k); ok {
		return c.binds[i].Label
	}
	return labelUnknown
}

// KeyFor is the reverse of Label. "No button" resolves to NoBind.
func (c *Catalog) KeyFor(label string) (Key, bool) {
	if label == labelNoBind {
		return NoBind, true
	}
	for _, b := range c.binds {
		if b.Label == label {
			return b.Key, true
		}
	}
	return NoBind, false
}

// prev returns the entry before k, wrapping unbound to the last entry and the
// first entry to unbound. Unknown keys become unbound.
func (c *Catalog) prev(k Key) Key {
	n := len(c.binds)
	if n == 0 {
		return NoBind
	}
	if k == NoBind {
		return c.binds[n-1].Key
	}
	if c.binds[0].Key == k {
		return NoBind
	}
	for i := 1; i < n; i++ {
		if c.binds[i].Key == k {
			return c.binds[i-1].Key
		}
	}
	return NoBind
}

// next mirrors prev.
func (c *Catalog) next(k Key) Key {
	n := len(c.binds)
	if n == 0 {
		return NoBind
	}
	if k == NoBind {
		return c.binds[0].Key
	}
	if c.binds[n-1].Key == k {
		return NoBind
	}
	for i := 0; i < n-1; i++ {
		if c.binds[i].Key == k {
			return c.binds[i+1].Key
		}
	}
	return NoBind
}

func stickDpad(raw, synthetic Input) Key { return Bit(raw) | Bit(synthetic) }

func platformBinds(l2, r2 string) []Bind {
	return []Bind{
		{Bit(B), "A button"},
		{Bit(Y), "X button"},
		{Bit(Select), "Back button"},
		{Bit(Start), "Start button"},
		{Bit(Up), "D-Pad Up"},
		{Bit(Down), "D-Pad Down"},
		{Bit(Left), "D-Pad Left"},
		{Bit(Right), "D-Pad Right"},
		{Bit(A), "B button"},
		{Bit(X), "Y button"},
		{Bit(L), "Left trigger"},
		{Bit(R), "Right trigger"},
		{Bit(L2), l2},
		{Bit(R2), r2},
		{Bit(L3), "Left thumb"},
		{Bit(R3), "Right thumb"},
		{Bit(Turbo), "Turbo button (Unmapped)"},
		{Bit(AnalogLeftXPlus), "LStick Right"},
		{Bit(AnalogLeftXMinus), "LStick Left"},
		{Bit(AnalogLeftYPlus), "LStick Up"},
		{Bit(AnalogLeftYMinus), "LStick Down"},
		{Bit(AnalogRightXPlus), "RStick Right"},
		{Bit(AnalogRightXMinus), "RStick Left"},
		{Bit(AnalogRightYPlus), "RStick Up"},
		{Bit(AnalogRightYMinus), "RStick Down"},
		{stickDpad(Left, LeftStickDpadLeft), "LStick D-Pad Left"},
		{stickDpad(Right, LeftStickDpadRight), "LStick D-Pad Right"},
		{stickDpad(Up, LeftStickDpadUp), "LStick D-Pad Up"},
		{stickDpad(Down, LeftStickDpadDown), "LStick D-Pad Down"},
		{stickDpad(Left, RightStickDpadLeft), "RStick D-Pad Left"},
		{stickDpad(Right, RightStickDpadRight), "RStick D-Pad Right"},
		{stickDpad(Up, RightStickDpadUp), "RStick D-Pad Up"},
		{stickDpad(Down, RightStickDpadDown), "RStick D-Pad Down"},
	}
}

var (
	// Xbox360Catalog is the catalog of a wired Xbox 360 pad.
	Xbox360Catalog = NewCatalog(platformBinds("Left shoulder", "Right shoulder"))
	// XboxCatalog is the catalog of an original Xbox pad.
	XboxCatalog = NewCatalog(platformBinds("White button", "Black button"))
)
