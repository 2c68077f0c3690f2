package joypad

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrTransientRead reports a read that failed this cycle only. The
	// previous snapshot of the port is kept.
	ErrTransientRead = errors.New("transient pad read failure")
	// ErrNotConnected reports a read against a port with no pad attached.
	ErrNotConnected = errors.New("pad not connected")
)

// levelTrace matches internal/log.LevelTrace without importing it.
const levelTrace slog.Level = -8

// Enumerator is the platform device enumeration collaborator.
type Enumerator interface {
	// ConnectedPorts reports which ports currently have a pad attached.
	ConnectedPorts() PortSet
	// ReadRawState reads the hardware state of port.
	ReadRawState(port int) (RawState, error)
}

// Hotplug is implemented by enumerators that report explicit insertion and
// removal events and hand out per-port handles. When present the driver reads
// through the handles instead of Enumerator.ReadRawState.
type Hotplug interface {
	// DeviceChanges returns the ports inserted and removed since the last call.
	DeviceChanges() (inserted, removed PortSet)
	// Open acquires a handle for a freshly inserted port.
	Open(port int) (Pad, error)
}

// Pad is an open hardware handle.
type Pad interface {
	Read() (RawState, error)
	Close() error
}

// Config selects the platform behavior of a Driver.
type Config struct {
	Platform *Platform
	// Deadzone of the stick to d-pad mapper. Zero selects DefaultDeadzone.
	Deadzone Deadzone
	// DpadModes is applied to every port after the catalog defaults.
	DpadModes [MaxPads]DpadMode
}

// Driver polls an Enumerator once per frame and answers input queries.
// It is not safe for concurrent use; poll, query and bind edits must be
// serialized by the caller.
type Driver struct {
	src      Enumerator
	hotplug  Hotplug
	platform *Platform
	deadzone Deadzone
	binds    *Bindings
	logger   *slog.Logger

	state     [MaxPads]Key
	pads      [MaxPads]Pad
	connected int
	lifecycle Key
}

// NewDriver builds a driver and loads the factory bindings: every port gets
// the catalog defaults followed by its configured d-pad mode.
func NewDriver(src Enumerator, cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	p := cfg.Platform
	if p == nil {
		p = Xbox360
	}
	dz := cfg.Deadzone
	if dz == 0 {
		dz = DefaultDeadzone
	}
	d := &Driver{
		src:      src,
		platform: p,
		deadzone: dz,
		binds:    NewBindings(p.Catalog),
		logger:   logger,
	}
	if hp, ok := src.(Hotplug); ok {
		d.hotplug = hp
	}
	for port := 0; port < MaxPads; port++ {
		d.binds.Apply(port, 0, ActionSetDefaults)
		d.binds.Apply(port, 0, DpadAction(cfg.DpadModes[port]))
	}
	return d
}

// Bindings exposes the binding table for the bind editor.
func (d *Driver) Bindings() *Bindings { return d.binds }

// Platform returns the platform the driver translates for.
func (d *Driver) Platform() *Platform { return d.platform }

// Poll refreshes every port snapshot and the lifecycle mask.
func (d *Driver) Poll() {
	if d.hotplug != nil {
		d.pollHotplug()
	} else {
		d.pollConnected()
	}
	d.lifecycle = ResolveHotkeys(d.state[0], d.binds.DpadMode(0), d.lifecycle)
}

func (d *Driver) pollHotplug() {
	inserted, removed := d.hotplug.DeviceChanges()
	for port := 0; port < MaxPads; port++ {
		if removed.Has(port) {
			if d.pads[port] != nil {
				if err := d.pads[port].Close(); err != nil {
					d.logger.Warn("close pad", "port", port, "error", err)
				}
				d.pads[port] = nil
			}
			d.state[port] = 0
			d.connected--
			d.logger.Info("pad removed", "port", port)
		}
		if inserted.Has(port) {
			pad, err := d.hotplug.Open(port)
			if err != nil {
				// The pad may vanish between the change report and the open.
				d.logger.Warn("open pad", "port", port, "error", err)
				pad = nil
			}
			d.pads[port] = pad
			d.connected++
			d.logger.Info("pad inserted", "port", port)
		}
		if d.pads[port] == nil {
			continue
		}
		raw, err := d.pads[port].Read()
		d.store(port, raw, err)
	}
}

func (d *Driver) pollConnected() {
	ports := d.src.ConnectedPorts()
	d.connected = ports.Len()
	for port := 0; port < MaxPads; port++ {
		if !ports.Has(port) {
			d.state[port] = 0
			continue
		}
		raw, err := d.src.ReadRawState(port)
		d.store(port, raw, err)
	}
}

func (d *Driver) store(port int, raw RawState, err error) {
	if err != nil {
		if errors.Is(err, ErrTransientRead) {
			d.logger.Log(context.Background(), levelTrace, "pad read skipped", "port", port, "error", err)
		} else {
			d.logger.Debug("pad read failed", "port", port, "error", err)
		}
		return
	}
	k := d.platform.Translate(raw)
	if d.binds.DpadMode(port) != DpadNone {
		k |= d.deadzone.Apply(raw)
	}
	d.state[port] = k
}

// State reports whether the key bound to id on port is held. Composite keys
// match when any of their bits is set.
func (d *Driver) State(port int, id Input) bool {
	checkPort(port)
	return d.state[port]&d.binds.Key(port, id) != 0
}

// Snapshot returns the composite mask of port from the last poll.
func (d *Driver) Snapshot(port int) Key {
	checkPort(port)
	return d.state[port]
}

// KeyPressed reports whether hotkey h fired during the last poll.
func (d *Driver) KeyPressed(h Hotkey) bool {
	return d.lifecycle&h.Bit() != 0
}

// Lifecycle returns the raw lifecycle mask.
func (d *Driver) Lifecycle() Key { return d.lifecycle }

// Connected returns the number of attached pads.
func (d *Driver) Connected() int { return d.connected }

// SetKeybinds applies a bind editor action to (port, id).
func (d *Driver) SetKeybinds(port int, id Input, action Action) {
	d.binds.Apply(port, id, action)
}

// DescribeKey labels k using the platform catalog.
func (d *Driver) DescribeKey(k Key) string {
	return d.platform.Catalog.Label(k)
}

// Close releases any open pad handles.
func (d *Driver) Close() error {
	var errs []error
	for port, p := range d.pads {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
		d.pads[port] = nil
	}
	return errors.Join(errs...)
}
