package firmware

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/wire"
)

// ErrDuplicateModule is returned when a module name is registered twice.
var ErrDuplicateModule = errors.New("duplicate module")

// Table is the device's module table. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	modules []*Module
	byName  map[string]*Module
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Module)}
}

// Register adds m at the next dispatch index and returns that index. A zero
// identifier is computed from the module's contents.
func (t *Table) Register(m *Module) (int32, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	if m.Identifier == 0 {
		m.Identifier = catalog.SignatureIdentifier(m.Name, m.Version, m.Signatures())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byName[m.Name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name)
	}
	m.index = int32(len(t.modules))
	t.modules = append(t.modules, m)
	t.byName[m.Name] = m
	return m.index, nil
}

// Lookup resolves a query by module name, or by identifier when the name is
// empty. Version checks are left to the host, which compares the returned
// record against its own.
func (t *Table) Lookup(query *wire.Record) (wire.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if query.Name == "" && query.Identifier != 0 {
		for _, m := range t.modules {
			if m.Identifier == query.Identifier {
				return m.Record(), nil
			}
		}
		return wire.Record{}, fmt.Errorf("%w: identifier 0x%08x", boundary.ErrModuleNotFound, query.Identifier)
	}

	m, ok := t.byName[query.Name]
	if !ok {
		return wire.Record{}, fmt.Errorf("%w: %q", boundary.ErrModuleNotFound, query.Name)
	}
	return m.Record(), nil
}

// Module returns the module at a dispatch index.
func (t *Table) Module(index int32) (*Module, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || int(index) >= len(t.modules) {
		return nil, false
	}
	return t.modules[index], true
}

// Modules returns the registered modules in dispatch order.
func (t *Table) Modules() []*Module {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Module(nil), t.modules...)
}

// Execute runs call.Function of the module at index. call.Module is filled
// in; call.Kind must match the function's kind.
func (t *Table) Execute(ctx context.Context, index int32, call *Call) (uint64, error) {
	m, ok := t.Module(index)
	if !ok {
		return 0, &boundary.StatusError{
			Status:  wire.StatusModuleNotFound,
			Message: fmt.Sprintf("no module at index %d", index),
		}
	}
	if int(call.Function) >= len(m.Functions) {
		return 0, &boundary.StatusError{
			Status:  wire.StatusInvalidFunction,
			Message: fmt.Sprintf("%s has no function %d", m.Name, call.Function),
		}
	}

	fn := m.Functions[call.Function]
	if fn.Kind != call.Kind {
		return 0, &boundary.StatusError{
			Status:  wire.StatusUnsupported,
			Message: fmt.Sprintf("%s.%s is %s, called as %s", m.Name, fn.Name, fn.Kind, call.Kind),
		}
	}
	if len(call.Args) != len(fn.Params) {
		return 0, &boundary.StatusError{
			Status:  wire.StatusInvalidArguments,
			Message: fmt.Sprintf("%s.%s takes %d arguments, got %d", m.Name, fn.Name, len(fn.Params), len(call.Args)),
		}
	}

	call.Module = m
	return fn.Handler(ctx, call)
}
