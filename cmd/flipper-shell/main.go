// Command flipper-shell is an interactive host for a flipper device.
//
// It connects to a device over TCP, binds modules by name and calls their
// functions.
//
// Usage:
//
//	flipper-shell [flags]
//
// Flags:
//
//	-addr string          Device address (default "localhost:5470")
//	-catalog string       Module catalog YAML (default: built-in catalog)
//	-timeout duration     Per-request timeout (default 30s)
//	-retries int          Dial retries (default 3)
//	-strict               Reject calls to functions missing from the catalog
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//	-protocol-log string  Write protocol events to this file
//
// Example session:
//
//	flipper> bind std gpio
//	gpio bound at index 2 (v1, id 0xe0b5f5d1)
//	flipper> invoke gpio enable u32:0xff u32:0
//	void
//	flipper> invoke gpio read u32:0xff
//	u32(0)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/wastevensv/flipper/cmd/flipper-shell/interactive"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/dispatch"
	protolog "github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/remote"
	"github.com/wastevensv/flipper/pkg/transport"
)

// Config holds the shell configuration.
type Config struct {
	Addr        string
	Catalog     string
	Timeout     time.Duration
	Retries     int
	Strict      bool
	LogLevel    string
	ProtocolLog string
}

func main() {
	var cfg Config
	flag.StringVar(&cfg.Addr, "addr", fmt.Sprintf("localhost:%d", transport.DefaultPort), "Device address")
	flag.StringVar(&cfg.Catalog, "catalog", "", "Module catalog YAML (default: built-in catalog)")
	flag.DurationVar(&cfg.Timeout, "timeout", remote.DefaultTimeout, "Per-request timeout")
	flag.IntVar(&cfg.Retries, "retries", 3, "Dial retries")
	flag.BoolVar(&cfg.Strict, "strict", false, "Reject calls to functions missing from the catalog")
	flag.StringVar(&cfg.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.ProtocolLog, "protocol-log", "", "Write protocol events to this file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "flipper> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}

	// Log output goes through readline so it does not garble the prompt.
	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	var protocol protolog.Logger
	if cfg.ProtocolLog != "" {
		fl, err := protolog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			rl.Close()
			return fmt.Errorf("opening protocol log: %w", err)
		}
		defer fl.Close()
		protocol = fl
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			rl.Close()
			return err
		}
	}

	conn, err := transport.Dial(ctx, cfg.Addr, transport.DialConfig{
		Retries:        cfg.Retries,
		Logger:         logger,
		ProtocolLogger: protocol,
	})
	if err != nil {
		rl.Close()
		return err
	}
	defer conn.Close()

	client := remote.New(conn)
	client.SetTimeout(cfg.Timeout)
	client.SetLogger(logger)
	if protocol != nil {
		client.SetProtocolLogger(protocol, cfg.Addr)
	}
	go func() {
		if err := client.Run(ctx, conn); err != nil {
			logger.Warn("connection lost", "error", err)
		}
	}()

	devices := device.NewTable()
	ref, err := devices.Attach(cfg.Addr, client)
	if err != nil {
		rl.Close()
		return err
	}
	fmt.Fprintf(rl.Stdout(), "Connected to %s (%s)\n", cfg.Addr, conn.ID())

	dcfg := dispatch.DefaultConfig()
	dcfg.Logger = logger
	dcfg.ProtocolLogger = protocol
	dcfg.Strict = cfg.Strict

	sh := interactive.New(interactive.Config{
		Device:     ref,
		Dispatcher: dispatch.New(dcfg),
		Binder:     &module.Binder{Logger: logger, ProtocolLogger: protocol},
		Catalog:    cat,
		Output:     rl.Stdout(),
	})
	sh.Run(ctx, rl)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
