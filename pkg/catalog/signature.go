package catalog

import (
	"fmt"
	"strings"

	"github.com/wastevensv/flipper/pkg/value"
)

// Kind is the operation kind a function is called with.
type Kind uint8

const (
	KindInvoke Kind = iota
	KindPush
	KindPull
)

// String returns the kind name used in catalog files.
func (k Kind) String() string {
	switch k {
	case KindInvoke:
		return "invoke"
	case KindPush:
		return "push"
	case KindPull:
		return "pull"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses a kind name. The empty string is KindInvoke.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "invoke", "exec":
		return KindInvoke, nil
	case "push":
		return KindPush, nil
	case "pull":
		return KindPull, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Signature is the resolved call signature of one module function.
type Signature struct {
	Op     uint8
	Name   string
	Kind   Kind
	Return value.Type
	Params []value.Type
}

// String formats the signature like a declaration.
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	prefix := ""
	if s.Kind != KindInvoke {
		prefix = s.Kind.String() + " "
	}
	return fmt.Sprintf("%s%s %s(%s)", prefix, s.Return, s.Name, strings.Join(params, ", "))
}

// Accepts returns true if the argument tags match the parameters.
func (s Signature) Accepts(types []value.Type) bool {
	if len(types) != len(s.Params) {
		return false
	}
	for i, t := range types {
		if t != s.Params[i] {
			return false
		}
	}
	return true
}
