// Command flipper-log reads the .flog captures that flipper-device and
// flipper-shell write when started with -protocol-log.
//
//	flipper-log view -category call -module uart0 host.flog
//	flipper-log export -layer wire -device sim -format csv -o wire.csv device.flog
//	flipper-log stats host.flog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wastevensv/flipper/cmd/flipper-log/commands"
)

type command struct {
	name    string
	summary string
	// setup registers the command's flags and returns its action.
	setup func(fs *flag.FlagSet) func(path string) error
}

var commandList = []command{
	{"view", "print events in readable form", setupView},
	{"export", "convert events to JSONL or CSV", setupExport},
	{"stats", "summarize a capture", setupStats},
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "flipper-log:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return flag.ErrHelp
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "-help" || name == "--help" {
		printUsage(os.Stdout)
		return nil
	}
	for _, c := range commandList {
		if c.name != name {
			continue
		}
		fs := flag.NewFlagSet("flipper-log "+c.name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		action := c.setup(fs)
		fs.Usage = func() {
			fmt.Fprintf(stderr, "usage: flipper-log %s [flags] <file.flog>\n\n%s.\n\n", c.name, c.summary)
			fs.PrintDefaults()
		}
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			fs.Usage()
			return errors.New("exactly one capture file is required")
		}
		return action(fs.Arg(0))
	}

	printUsage(stderr)
	return fmt.Errorf("unknown command %q", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: flipper-log <command> [flags] <file.flog>")
	fmt.Fprintln(w)
	for _, c := range commandList {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "flipper-log <command> -h" for the flags of a command.`)
}

func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	o := &commands.FilterOptions{}
	fs.StringVar(&o.ConnID, "conn-id", "", "only events on this connection")
	fs.StringVar(&o.Device, "device", "", "only events from this device")
	fs.StringVar(&o.Module, "module", "", "only call and bind events for this module")
	fs.StringVar(&o.TimeStart, "time-start", "", "drop events before this RFC 3339 time")
	fs.StringVar(&o.TimeEnd, "time-end", "", "drop events at or after this RFC 3339 time")
	fs.StringVar(&o.Layer, "layer", "", "transport, wire or core")
	fs.StringVar(&o.Direction, "direction", "", "in or out")
	fs.StringVar(&o.Category, "category", "", "message, control, state, error, call or bind")
	return o
}

func setupView(fs *flag.FlagSet) func(string) error {
	opts := filterFlags(fs)
	return func(path string) error {
		filter, err := opts.Build()
		if err != nil {
			return err
		}
		return commands.RunView(path, filter, os.Stdout)
	}
}

func setupExport(fs *flag.FlagSet) func(string) error {
	format := fs.String("format", "jsonl", "jsonl or csv")
	output := fs.String("o", "", "output file (default stdout)")
	opts := filterFlags(fs)
	return func(path string) error {
		filter, err := opts.Build()
		if err != nil {
			return err
		}
		return commands.RunExport(path, *format, *output, filter)
	}
}

func setupStats(*flag.FlagSet) func(string) error {
	return func(path string) error {
		return commands.RunStats(path, os.Stdout)
	}
}
