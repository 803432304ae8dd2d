package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Catalog errors.
var (
	ErrEmptyName         = errors.New("empty name")
	ErrDuplicateModule   = errors.New("duplicate module")
	ErrDuplicateFunction = errors.New("duplicate function")
	ErrTooManyFunctions  = errors.New("too many functions")
	ErrTooManyParams     = errors.New("too many parameters")
	ErrUnknownKind       = errors.New("unknown function kind")
)

// MaxFunctions is the most functions a module can expose. Function indices
// are a single byte on the wire.
const MaxFunctions = 256

// UnboundIndex is the dispatch index of a catalog entry that has not been
// bound to a device.
const UnboundIndex int32 = -1

//go:embed builtin.yaml
var builtinYAML []byte

// Catalog is a set of module definitions.
type Catalog struct {
	Modules []Entry `yaml:"modules"`
}

// Entry describes one standard module.
type Entry struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Version     uint32        `yaml:"version"`
	Identifier  uint32        `yaml:"identifier,omitempty"`
	Functions   []FunctionDef `yaml:"functions"`
}

// FunctionDef describes one module function. Its position in the list is
// its function index.
type FunctionDef struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind,omitempty"`
	Return string  `yaml:"return,omitempty"`
	Params []Param `yaml:"params,omitempty"`
}

// Param is a named function parameter.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Parse parses and validates a catalog from YAML bytes. Entries without an
// identifier get one computed from their contents.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i := range c.Modules {
		if c.Modules[i].Identifier == 0 {
			id, err := Identifier(c.Modules[i])
			if err != nil {
				return nil, err
			}
			c.Modules[i].Identifier = id
		}
	}
	return &c, nil
}

// Load loads and parses a catalog from a file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the catalog of the builtin board modules.
func Default() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}

// Validate checks names, kinds and types in every entry.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Modules))
	for _, e := range c.Modules {
		if e.Name == "" {
			return fmt.Errorf("module: %w", ErrEmptyName)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateModule, e.Name)
		}
		seen[e.Name] = true
		if _, err := e.Signatures(); err != nil {
			return fmt.Errorf("module %s: %w", e.Name, err)
		}
	}
	return nil
}

// Lookup returns the entry with the given name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	for _, e := range c.Modules {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the module names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Modules))
	for i, e := range c.Modules {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// Record returns the wire record for the entry. The index is UnboundIndex.
func (e Entry) Record() wire.Record {
	return wire.Record{
		Name:        e.Name,
		Description: e.Description,
		Version:     e.Version,
		Identifier:  e.Identifier,
		Index:       UnboundIndex,
	}
}

// Function returns the definition and index of the named function.
func (e Entry) Function(name string) (FunctionDef, uint8, bool) {
	for i, f := range e.Functions {
		if f.Name == name {
			return f, uint8(i), true
		}
	}
	return FunctionDef{}, 0, false
}

// Signatures resolves the function definitions into signatures indexed by
// function index.
func (e Entry) Signatures() ([]Signature, error) {
	if len(e.Functions) > MaxFunctions {
		return nil, fmt.Errorf("%w: %d", ErrTooManyFunctions, len(e.Functions))
	}
	sigs := make([]Signature, len(e.Functions))
	seen := make(map[string]bool, len(e.Functions))
	for i, f := range e.Functions {
		if f.Name == "" {
			return nil, fmt.Errorf("function %d: %w", i, ErrEmptyName)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
		}
		seen[f.Name] = true

		sig, err := f.Signature(uint8(i))
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
		sigs[i] = sig
	}
	return sigs, nil
}

// Signature resolves the definition's kind and type names.
func (f FunctionDef) Signature(op uint8) (Signature, error) {
	kind, err := ParseKind(f.Kind)
	if err != nil {
		return Signature{}, err
	}
	ret, err := value.ParseType(f.Return)
	if err != nil {
		return Signature{}, fmt.Errorf("return: %w", err)
	}
	if len(f.Params) > arg.MaxArgs {
		return Signature{}, fmt.Errorf("%w: %d", ErrTooManyParams, len(f.Params))
	}
	params := make([]value.Type, len(f.Params))
	for i, p := range f.Params {
		t, err := value.ParseType(p.Type)
		if err != nil {
			return Signature{}, fmt.Errorf("param %s: %w", p.Name, err)
		}
		if t == value.Void {
			return Signature{}, fmt.Errorf("param %s: void parameter", p.Name)
		}
		params[i] = t
	}
	return Signature{Op: op, Name: f.Name, Kind: kind, Return: ret, Params: params}, nil
}
