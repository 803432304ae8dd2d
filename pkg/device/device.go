// Package device keeps the table of attached devices.
//
// Bound module identities hold a Ref into a Table rather than the device
// itself. The table owns the device; a Ref only names a slot and the
// generation the slot had when the device was attached, so a Ref to a device
// that has since been detached fails to resolve instead of reaching a stale
// connection.
package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wastevensv/flipper/pkg/boundary"
)

// Device errors.
var (
	ErrDeviceGone     = errors.New("device detached")
	ErrDuplicateName  = errors.New("device name already attached")
	ErrNilLink        = errors.New("device link is nil")
	ErrDeviceNotFound = errors.New("device not found")
)

// Device is an attached device connection.
type Device struct {
	Name string
	Link boundary.Link
}

type slot struct {
	gen    uint32
	device *Device
}

// Table owns the attached devices. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	slots []slot
	free  []int
}

// NewTable creates an empty device table.
func NewTable() *Table {
	return &Table{}
}

// Attach adds a device and returns a reference to it.
func (t *Table) Attach(name string, link boundary.Link) (Ref, error) {
	if link == nil {
		return Ref{}, ErrNilLink
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.slots {
		if s.device != nil && s.device.Name == name {
			return Ref{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	d := &Device{Name: name, Link: link}
	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[idx].device = d
	} else {
		idx = len(t.slots)
		t.slots = append(t.slots, slot{gen: 1, device: d})
	}
	return Ref{table: t, slot: idx, gen: t.slots[idx].gen}, nil
}

// Detach tears down the device behind ref. Every Ref to it stops resolving.
func (t *Table) Detach(ref Ref) error {
	if ref.table != t {
		return ErrDeviceNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if ref.slot >= len(t.slots) {
		return ErrDeviceNotFound
	}
	s := &t.slots[ref.slot]
	if s.device == nil || s.gen != ref.gen {
		return ErrDeviceGone
	}
	s.device = nil
	s.gen++
	t.free = append(t.free, ref.slot)
	return nil
}

// Lookup returns a reference to the attached device with the given name.
func (t *Table) Lookup(name string) (Ref, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, s := range t.slots {
		if s.device != nil && s.device.Name == name {
			return Ref{table: t, slot: i, gen: s.gen}, true
		}
	}
	return Ref{}, false
}

// Len returns the number of attached devices.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots) - len(t.free)
}

// Names returns the names of the attached devices in slot order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.slots))
	for _, s := range t.slots {
		if s.device != nil {
			names = append(names, s.device.Name)
		}
	}
	return names
}

func (t *Table) resolve(ref Ref) (*Device, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if ref.slot >= len(t.slots) {
		return nil, ErrDeviceNotFound
	}
	s := t.slots[ref.slot]
	if s.device == nil || s.gen != ref.gen {
		return nil, ErrDeviceGone
	}
	return s.device, nil
}

// Ref is a non-owning reference to an attached device. The zero Ref refers
// to nothing.
type Ref struct {
	table *Table
	slot  int
	gen   uint32
}

// IsZero returns true if the Ref was never attached.
func (r Ref) IsZero() bool {
	return r.table == nil
}

// ID returns a handle id for the device, unique within its table while the
// device is attached. The zero Ref has id 0.
func (r Ref) ID() uint32 {
	if r.table == nil {
		return 0
	}
	return uint32(r.slot+1) | r.gen<<16
}

// Resolve returns the device behind the reference.
func (r Ref) Resolve() (*Device, error) {
	if r.table == nil {
		return nil, ErrDeviceNotFound
	}
	return r.table.resolve(r)
}

// Link resolves the reference and returns the device's link. Failures are
// reported as transport errors.
func (r Ref) Link() (boundary.Link, error) {
	d, err := r.Resolve()
	if err != nil {
		return nil, boundary.NewTransportError("resolve device", err)
	}
	return d.Link, nil
}

// String returns the handle id for logs.
func (r Ref) String() string {
	if r.table == nil {
		return "device(none)"
	}
	return fmt.Sprintf("device(0x%08x)", r.ID())
}
