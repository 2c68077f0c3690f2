package joypad

// Action is a set of bind editor operations. Flags may be combined; they run
// in declaration order.
type Action uint32

const (
	ActionDecrement Action = 1 << iota
	ActionIncrement
	ActionSetDefault
	ActionSetDefaults
	ActionDpadNone
	ActionDpadLeftStick
	ActionDpadRightStick
)

// DpadAction returns the editor action selecting mode.
func DpadAction(mode DpadMode) Action {
	switch mode {
	case DpadLeftStick:
		return ActionDpadLeftStick
	case DpadRightStick:
		return ActionDpadRightStick
	default:
		return ActionDpadNone
	}
}

type binding struct {
	key Key
	def Key
}

// Bindings is the per-port binding table.
type Bindings struct {
	catalog *Catalog
	ports   [MaxPads][InputCount]binding
	dpad    [MaxPads]DpadMode
}

// NewBindings returns a table with every binding unset and every port in
// DpadNone. Call Apply with ActionSetDefaults to load catalog defaults.
func NewBindings(c *Catalog) *Bindings {
	return &Bindings{catalog: c}
}

// Catalog returns the catalog the table cycles through.
func (b *Bindings) Catalog() *Catalog { return b.catalog }

// Key returns the key currently bound to id on port.
func (b *Bindings) Key(port int, id Input) Key {
	checkPort(port)
	checkInput(id)
	return b.ports[port][id].key
}

// Default returns the default key of id on port.
func (b *Bindings) Default(port int, id Input) Key {
	checkPort(port)
	checkInput(id)
	return b.ports[port][id].def
}

// Set binds k to id on port without touching the default.
func (b *Bindings) Set(port int, id Input, k Key) {
	checkPort(port)
	checkInput(id)
	b.ports[port][id].key = k
}

// DpadMode returns the d-pad emulation mode of port.
func (b *Bindings) DpadMode(port int) DpadMode {
	checkPort(port)
	return b.dpad[port]
}

// SetDpadMode is shorthand for Apply with DpadAction(mode).
func (b *Bindings) SetDpadMode(port int, mode DpadMode) {
	b.Apply(port, Up, DpadAction(mode))
}

// Apply runs the editor operations in action against (port, id). For actions
// that work on the whole port, id is ignored.
func (b *Bindings) Apply(port int, id Input, action Action) {
	checkPort(port)
	checkInput(id)

	slot := &b.ports[port][id]
	cur := slot.key

	if action&ActionDecrement != 0 {
		slot.key = b.catalog.prev(cur)
	}
	if action&ActionIncrement != 0 {
		slot.key = b.catalog.next(cur)
	}
	if action&ActionSetDefault != 0 {
		slot.key = slot.def
	}
	if action&ActionSetDefaults != 0 {
		b.resetPort(port)
	}
	if action&ActionDpadNone != 0 {
		b.setDirections(port, DpadNone, Up, Down, Left, Right)
	}
	if action&ActionDpadLeftStick != 0 {
		b.setDirections(port, DpadLeftStick, LeftStickDpadUp, LeftStickDpadDown, LeftStickDpadLeft, LeftStickDpadRight)
	}
	if action&ActionDpadRightStick != 0 {
		b.setDirections(port, DpadRightStick, RightStickDpadUp, RightStickDpadDown, RightStickDpadLeft, RightStickDpadRight)
	}
}

func (b *Bindings) resetPort(port int) {
	n := b.catalog.Len()
	for i := range b.ports[port] {
		var k Key
		if i < n {
			k = b.catalog.At(i).Key
		}
		b.ports[port][i] = binding{key: k, def: k}
	}
	b.dpad[port] = DpadLeftStick
}

// setDirections binds Up/Down/Left/Right to the catalog entries at the given
// indices.
func (b *Bindings) setDirections(port int, mode DpadMode, up, down, left, right Input) {
	b.dpad[port] = mode
	b.ports[port][Up].key = b.catalogKey(up)
	b.ports[port][Down].key = b.catalogKey(down)
	b.ports[port][Left].key = b.catalogKey(left)
	b.ports[port][Right].key = b.catalogKey(right)
}

func (b *Bindings) catalogKey(i Input) Key {
	if int(i) >= b.catalog.Len() {
		return NoBind
	}
	return b.catalog.At(int(i)).Key
}
