// Package interactive provides the command interpreter of flipper-shell.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/dispatch"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/value"
)

// ErrQuit is returned by Execute for the exit command.
var ErrQuit = errors.New("quit")

// Shell runs commands against one device.
type Shell struct {
	ref     device.Ref
	d       *dispatch.Dispatcher
	binder  *module.Binder
	catalog *catalog.Catalog
	out     io.Writer

	bound map[string]*module.Identity
}

// Config configures a Shell.
type Config struct {
	Device     device.Ref
	Dispatcher *dispatch.Dispatcher

	// Binder binds modules (default: a Binder without protocol logging).
	Binder *module.Binder

	// Catalog resolves standard module names (default: catalog.Default()).
	Catalog *catalog.Catalog

	// Output receives command output.
	Output io.Writer
}

// New creates a shell.
func New(cfg Config) *Shell {
	if cfg.Binder == nil {
		cfg.Binder = &module.Binder{}
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	return &Shell{
		ref:     cfg.Device,
		d:       cfg.Dispatcher,
		binder:  cfg.Binder,
		catalog: cfg.Catalog,
		out:     cfg.Output,
		bound:   make(map[string]*module.Identity),
	}
}

// Run reads commands from rl until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) {
	defer rl.Close()
	s.printHelp()

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				fmt.Fprintln(s.out, "Exiting...")
				return
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Execute runs one command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "bind", "b":
		return s.cmdBind(ctx, args)
	case "modules", "ls":
		s.cmdModules()
		return nil
	case "catalog":
		s.cmdCatalog()
		return nil
	case "invoke", "i":
		return s.cmdInvoke(ctx, args)
	case "push":
		return s.cmdPush(ctx, args)
	case "pull":
		return s.cmdPull(ctx, args)
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Flipper Shell Commands:
  Binding:
    bind std <name>                       - Bind a catalog module
    bind user <name>                      - Bind a user module by name
    modules                               - List bound modules
    catalog                               - List catalog modules

  Calls:
    invoke <module> <fn>[:ret] [args...]  - Call a function
    push <module> <fn>[:ret] <data> [args...]
                                          - Send data (0x-prefixed hex or text)
    pull <module> <fn>[:ret] <len> [args...]
                                          - Receive len bytes

  General:
    help                                  - Show this help
    exit                                  - Leave the shell

  Functions are given by name or index. Arguments are type:value
  (u8:255, i16:-3, f32:1.5, bool:true); a bare number is an i32.`)
}

func (s *Shell) cmdBind(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: bind std|user <name>")
	}
	kind, name := strings.ToLower(args[0]), args[1]

	var unbound *module.Identity
	switch kind {
	case "std", "standard":
		entry, ok := s.catalog.Lookup(name)
		if !ok {
			return fmt.Errorf("%s is not in the catalog", name)
		}
		unbound = module.Standard(entry)
	case "user":
		unbound = module.UninitializedUser(name)
	default:
		return fmt.Errorf("unknown module kind %q (use std or user)", kind)
	}

	id, err := s.binder.Bind(ctx, unbound, s.ref)
	if err != nil {
		return err
	}
	s.bound[name] = id
	fmt.Fprintf(s.out, "%s bound at index %d (v%d, id 0x%08x)\n", name, id.Index(), id.Version(), id.Identifier())
	return nil
}

func (s *Shell) cmdModules() {
	if len(s.bound) == 0 {
		fmt.Fprintln(s.out, "No modules bound")
		return
	}
	names := make([]string, 0, len(s.bound))
	for name := range s.bound {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id := s.bound[name]
		fmt.Fprintf(s.out, "  [%d] %s %s v%d id=0x%08x\n", id.Index(), id.Kind(), name, id.Version(), id.Identifier())
		for _, sig := range id.Signatures() {
			fmt.Fprintf(s.out, "        %2d  %s\n", sig.Op, sig)
		}
	}
}

func (s *Shell) cmdCatalog() {
	for _, e := range s.catalog.Modules {
		fmt.Fprintf(s.out, "  %-10s v%d  %s\n", e.Name, e.Version, e.Description)
	}
}

// call is a parsed invoke, push or pull target.
type call struct {
	id   *module.Identity
	op   uint8
	ret  value.Type
	args []arg.Arg
}

func (s *Shell) parseCall(target, fn string, rest []string) (*call, error) {
	id, ok := s.bound[target]
	if !ok {
		return nil, fmt.Errorf("module %s is not bound (use bind first)", target)
	}

	fnName, retName, hasRet := strings.Cut(fn, ":")
	c := &call{id: id, ret: value.Void}

	if n, err := strconv.ParseUint(fnName, 0, 8); err == nil {
		c.op = uint8(n)
		if sig, ok := id.Signature(c.op); ok {
			c.ret = sig.Return
		}
	} else {
		found := false
		for _, sig := range id.Signatures() {
			if sig.Name == fnName {
				c.op, c.ret, found = sig.Op, sig.Return, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("module %s has no function %q", target, fnName)
		}
	}

	if hasRet {
		t, err := value.ParseType(retName)
		if err != nil {
			return nil, err
		}
		c.ret = t
	}

	for _, a := range rest {
		parsed, err := arg.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a, err)
		}
		c.args = append(c.args, parsed)
	}
	return c, nil
}

func (s *Shell) cmdInvoke(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: invoke <module> <fn>[:ret] [args...]")
	}
	c, err := s.parseCall(args[0], args[1], args[2:])
	if err != nil {
		return err
	}
	v, err := s.d.Invoke(ctx, c.id, c.op, c.ret, c.args...)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func (s *Shell) cmdPush(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: push <module> <fn>[:ret] <data> [args...]")
	}
	c, err := s.parseCall(args[0], args[1], args[3:])
	if err != nil {
		return err
	}
	data, err := parseData(args[2])
	if err != nil {
		return err
	}
	v, err := s.d.Push(ctx, c.id, c.op, c.ret, data, c.args...)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "sent %d bytes: %s\n", len(data), v)
	return nil
}

func (s *Shell) cmdPull(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: pull <module> <fn>[:ret] <len> [args...]")
	}
	c, err := s.parseCall(args[0], args[1], args[3:])
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(args[2], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid length %q: %w", args[2], err)
	}
	buf := make([]byte, n)
	v, err := s.d.Pull(ctx, c.id, c.op, c.ret, buf, c.args...)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n%s", v, hex.Dump(buf))
	return nil
}

// parseData decodes 0x-prefixed hex, otherwise takes the text as is.
func parseData(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		data, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return data, nil
	}
	return []byte(s), nil
}
