// Package padnet turns remote pad streams into a joypad enumerator.
//
// A feeder attaches to a port, pushes raw states for as long as its stream
// lives and detaches when the stream ends. Attach and detach are reported to
// the driver as hotplug events on its next poll.
package padnet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Alia5/padbind/joypad"
)

// ErrPortBusy is returned by Attach when another feeder holds the port.
var ErrPortBusy = errors.New("port already has a feeder")

type slot struct {
	attached bool
	gen      uint64
	fresh    bool
	state    joypad.RawState
}

// Enumerator implements joypad.Enumerator and joypad.Hotplug over network
// feeders. It is safe for concurrent use.
type Enumerator struct {
	mu       sync.Mutex
	slots    [joypad.MaxPads]slot
	nextGen  uint64
	inserted joypad.PortSet
	removed  joypad.PortSet
}

func New() *Enumerator { return &Enumerator{} }

func validPort(port int) error {
	if port < 0 || port >= joypad.MaxPads {
		return fmt.Errorf("port %d out of range [0,%d)", port, joypad.MaxPads)
	}
	return nil
}

// Attach claims port for a new feeder.
func (e *Enumerator) Attach(port int) (*Feed, error) {
	if err := validPort(port); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.slots[port]
	if s.attached {
		return nil, fmt.Errorf("port %d: %w", port, ErrPortBusy)
	}
	e.nextGen++
	*s = slot{attached: true, gen: e.nextGen}
	e.inserted = e.inserted.With(port)
	return &Feed{e: e, port: port, gen: s.gen}, nil
}

func (e *Enumerator) detach(port int, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.slots[port]
	if !s.attached || s.gen != gen {
		return
	}
	*s = slot{}
	if e.inserted.Has(port) {
		// Never seen by a poll; drop the pending insertion.
		e.inserted = e.inserted.Without(port)
		return
	}
	e.removed = e.removed.With(port)
}

func (e *Enumerator) push(port int, gen uint64, st joypad.RawState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.slots[port]
	if !s.attached || s.gen != gen {
		return false
	}
	s.state = st
	s.fresh = true
	return true
}

// ConnectedPorts reports every port with an attached feeder.
func (e *Enumerator) ConnectedPorts() joypad.PortSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ps joypad.PortSet
	for port := range e.slots {
		if e.slots[port].attached {
			ps = ps.With(port)
		}
	}
	return ps
}

// ReadRawState returns the last state pushed to port. A port whose feeder has
// not sent a frame yet reports joypad.ErrTransientRead.
func (e *Enumerator) ReadRawState(port int) (joypad.RawState, error) {
	if err := validPort(port); err != nil {
		return joypad.RawState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.slots[port]
	switch {
	case !s.attached:
		return joypad.RawState{}, fmt.Errorf("port %d: %w", port, joypad.ErrNotConnected)
	case !s.fresh:
		return joypad.RawState{}, fmt.Errorf("port %d: no frame yet: %w", port, joypad.ErrTransientRead)
	}
	return s.state, nil
}

// DeviceChanges returns and clears the pending hotplug events. A port that
// was detached and reattached between two calls shows up in both sets.
func (e *Enumerator) DeviceChanges() (inserted, removed joypad.PortSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inserted, removed = e.inserted, e.removed
	e.inserted, e.removed = 0, 0
	return inserted, removed
}

// Open returns a handle reading the feeder currently attached to port.
func (e *Enumerator) Open(port int) (joypad.Pad, error) {
	if err := validPort(port); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.slots[port]
	if !s.attached {
		return nil, fmt.Errorf("port %d: %w", port, joypad.ErrNotConnected)
	}
	return &pad{e: e, port: port, gen: s.gen}, nil
}

// pad is bound to one feeder generation; it goes stale when that feeder
// detaches even if a new one takes the port.
type pad struct {
	e    *Enumerator
	port int
	gen  uint64
}

func (p *pad) Read() (joypad.RawState, error) {
	p.e.mu.Lock()
	gen := p.e.slots[p.port].gen
	p.e.mu.Unlock()
	if gen != p.gen {
		return joypad.RawState{}, fmt.Errorf("port %d: %w", p.port, joypad.ErrNotConnected)
	}
	return p.e.ReadRawState(p.port)
}

func (p *pad) Close() error { return nil }

// Feed is the write side of an attached port.
type Feed struct {
	e    *Enumerator
	port int
	gen  uint64
	once sync.Once
}

// Port returns the port the feed is attached to.
func (f *Feed) Port() int { return f.port }

// Push replaces the state of the port. It returns joypad.ErrNotConnected
// after Close.
func (f *Feed) Push(st joypad.RawState) error {
	if !f.e.push(f.port, f.gen, st) {
		return fmt.Errorf("port %d: %w", f.port, joypad.ErrNotConnected)
	}
	return nil
}

// Close detaches the feed. It is safe to call more than once.
func (f *Feed) Close() error {
	f.once.Do(func() { f.e.detach(f.port, f.gen) })
	return nil
}
