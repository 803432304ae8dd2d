// Package module defines module identities and binds them to devices.
//
// An Identity names a module either as a standard module described by a
// catalog entry or as a user module known only by name. Binding asks the
// device for the module's live table entry and returns a new, bound
// Identity carrying the device's dispatch index and a reference to the
// device. Identities are values: binding never mutates its input.
package module

import (
	"fmt"

	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Kind discriminates standard and user module identities.
type Kind uint8

const (
	KindStandard Kind = iota
	KindUser
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// UserIndex is the dispatch index of an unbound user module.
const UserIndex int32 = 0

// Identity is a module identity. The zero value is not usable; construct
// identities with Standard or UninitializedUser.
type Identity struct {
	kind   Kind
	record wire.Record
	sigs   []catalog.Signature
	ref    device.Ref
	bound  bool

	// invalid holds why a hand-built entry's functions did not resolve.
	invalid error
}

// Standard returns an unbound identity for a catalog entry. The entry's
// record and signatures are taken as is. Entries from a parsed catalog are
// always valid; a hand-built entry whose functions do not resolve yields an
// identity that fails to bind.
func Standard(e catalog.Entry) *Identity {
	id := &Identity{
		kind:   KindStandard,
		record: e.Record(),
	}
	sigs, err := e.Signatures()
	if err != nil {
		id.invalid = fmt.Errorf("module %s: %w", e.Name, err)
		return id
	}
	id.sigs = sigs
	return id
}

// UninitializedUser returns an unbound user identity. Version and
// identifier are zero and are adopted from the device on bind.
func UninitializedUser(name string) *Identity {
	return &Identity{
		kind:   KindUser,
		record: wire.Record{Name: name, Index: UserIndex},
	}
}

// Kind returns the identity's variant.
func (id *Identity) Kind() Kind { return id.kind }

// Name returns the module name.
func (id *Identity) Name() string { return id.record.Name }

// Version returns the module version, zero if unknown.
func (id *Identity) Version() uint32 { return id.record.Version }

// Identifier returns the module content identifier, zero if unknown.
func (id *Identity) Identifier() uint32 { return id.record.Identifier }

// Index returns the dispatch index. Unbound identities return their
// variant's sentinel.
func (id *Identity) Index() int32 { return id.record.Index }

// Record returns a copy of the identity record.
func (id *Identity) Record() wire.Record { return id.record.Clone() }

// Device returns the device reference. It is the zero Ref when unbound.
func (id *Identity) Device() device.Ref { return id.ref }

// IsBound returns true once the identity has been bound to a device. A nil
// identity is not bound.
func (id *Identity) IsBound() bool { return id != nil && id.bound }

// Signatures returns the function signatures known for the module, or nil
// if none are known.
func (id *Identity) Signatures() []catalog.Signature { return id.sigs }

// Signature returns the signature of function op.
func (id *Identity) Signature(op uint8) (catalog.Signature, bool) {
	if int(op) >= len(id.sigs) {
		return catalog.Signature{}, false
	}
	return id.sigs[op], true
}

// String describes the identity for logs.
func (id *Identity) String() string {
	if id == nil {
		return "<nil module>"
	}
	state := "unbound"
	if id.bound {
		state = "bound to " + id.ref.String()
	}
	return fmt.Sprintf("%s module %s (%s)", id.kind, id.record, state)
}

// bindTo returns a bound copy of id using the device's record.
func (id *Identity) bindTo(reported wire.Record, ref device.Ref) *Identity {
	out := &Identity{
		kind:   id.kind,
		record: id.record.Clone(),
		sigs:   id.sigs,
		ref:    ref,
		bound:  true,
	}
	if out.record.Version == 0 {
		out.record.Version = reported.Version
	}
	if out.record.Identifier == 0 {
		out.record.Identifier = reported.Identifier
	}
	if out.record.Description == "" {
		out.record.Description = reported.Description
	}
	out.record.Index = reported.Index
	out.record.Device = ref.ID()
	return out
}
