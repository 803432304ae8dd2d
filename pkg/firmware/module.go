package firmware

import (
	"context"
	"errors"
	"fmt"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Module definition errors.
var (
	ErrEmptyName         = errors.New("empty name")
	ErrDuplicateFunction = errors.New("duplicate function")
	ErrMissingHandler    = errors.New("missing handler")
	ErrTooManyFunctions  = errors.New("too many functions")
	ErrTooManyParams     = errors.New("too many parameters")
)

// Call carries one request into a Handler.
type Call struct {
	Module   *Module
	Function uint8
	Kind     catalog.Kind
	Return   value.Type
	Types    uint64
	Args     []uint64

	// Data is the pushed payload, or for a pull the buffer to fill. A
	// pull buffer is pre-sized to the host's length.
	Data []byte
}

// Arg returns argument i, or 0 if the call has fewer arguments.
func (c *Call) Arg(i int) uint64 {
	if i < 0 || i >= len(c.Args) {
		return 0
	}
	return c.Args[i]
}

// ArgTypes unpacks the argument type tags.
func (c *Call) ArgTypes() []value.Type {
	return arg.UnpackTypes(c.Types, len(c.Args))
}

// Handler runs one module function and returns its raw result word.
// Returning a *boundary.StatusError selects the response status; any other
// error is reported as a failure.
type Handler func(ctx context.Context, call *Call) (uint64, error)

// Function is one entry of a module's function table.
type Function struct {
	Name    string
	Kind    catalog.Kind
	Return  value.Type
	Params  []value.Type
	Handler Handler
}

// Module is a device-side module.
type Module struct {
	Name        string
	Description string
	Version     uint32
	Identifier  uint32
	Functions   []Function

	index int32
}

// Index returns the dispatch index assigned by Table.Register.
func (m *Module) Index() int32 { return m.index }

// Signatures returns the function signatures by function index.
func (m *Module) Signatures() []catalog.Signature {
	sigs := make([]catalog.Signature, len(m.Functions))
	for i, f := range m.Functions {
		sigs[i] = catalog.Signature{
			Op:     uint8(i),
			Name:   f.Name,
			Kind:   f.Kind,
			Return: f.Return,
			Params: f.Params,
		}
	}
	return sigs
}

// Record returns the module's identity record.
func (m *Module) Record() wire.Record {
	return wire.Record{
		Name:        m.Name,
		Description: m.Description,
		Version:     m.Version,
		Identifier:  m.Identifier,
		Index:       m.index,
	}
}

func (m *Module) validate() error {
	if m.Name == "" {
		return ErrEmptyName
	}
	if len(m.Functions) > catalog.MaxFunctions {
		return fmt.Errorf("%w: %d", ErrTooManyFunctions, len(m.Functions))
	}
	seen := make(map[string]bool, len(m.Functions))
	for i, f := range m.Functions {
		switch {
		case f.Name == "":
			return fmt.Errorf("function %d: %w", i, ErrEmptyName)
		case seen[f.Name]:
			return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
		case f.Handler == nil:
			return fmt.Errorf("function %s: %w", f.Name, ErrMissingHandler)
		case len(f.Params) > arg.MaxArgs:
			return fmt.Errorf("function %s: %w", f.Name, ErrTooManyParams)
		}
		seen[f.Name] = true
	}
	return nil
}

// FromCatalog builds a module from a catalog entry, taking each function's
// handler from handlers by name.
func FromCatalog(e catalog.Entry, handlers map[string]Handler) (*Module, error) {
	sigs, err := e.Signatures()
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", e.Name, err)
	}

	m := &Module{
		Name:        e.Name,
		Description: e.Description,
		Version:     e.Version,
		Identifier:  e.Identifier,
		Functions:   make([]Function, len(sigs)),
	}
	for i, s := range sigs {
		h, ok := handlers[s.Name]
		if !ok {
			return nil, fmt.Errorf("module %s function %s: %w", e.Name, s.Name, ErrMissingHandler)
		}
		m.Functions[i] = Function{
			Name:    s.Name,
			Kind:    s.Kind,
			Return:  s.Return,
			Params:  s.Params,
			Handler: h,
		}
	}
	return m, nil
}
