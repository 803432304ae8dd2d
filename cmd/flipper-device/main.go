// Command flipper-device serves a simulated board over TCP.
//
// The board carries the standard led, uart0 and gpio modules. Hosts connect
// with flipper-shell or the remote package and bind modules by name.
//
// Usage:
//
//	flipper-device [flags]
//
// Flags:
//
//	-listen string        Listen address (default ":5470")
//	-config string        YAML configuration file
//	-catalog string       Module catalog YAML (default: built-in catalog)
//	-name string          Device name used in protocol logs (default "sim")
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write protocol events to this file
//
// Example config:
//
//	name: bench
//	listen: 127.0.0.1:5470
//	uart_buffer: 4096
//	keepalive:
//	  ping_interval: 10s
//	  pong_timeout: 3s
//	  max_missed_pongs: 2
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/firmware"
	"github.com/wastevensv/flipper/pkg/firmware/builtin"
	protolog "github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/transport"
	"github.com/wastevensv/flipper/pkg/wire"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	listen := flag.String("listen", "", "Listen address (default \":5470\")")
	catalogPath := flag.String("catalog", "", "Module catalog YAML (default: built-in catalog)")
	name := flag.String("name", "", "Device name used in protocol logs (default \"sim\")")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default \"info\")")
	protocolLog := flag.String("protocol-log", "", "Write protocol events to this file")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	override(&cfg.Listen, *listen)
	override(&cfg.Catalog, *catalogPath)
	override(&cfg.Name, *name)
	override(&cfg.LogLevel, *logLevel)
	override(&cfg.ProtocolLog, *protocolLog)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("device failed", "error", err)
		os.Exit(1)
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func run(ctx context.Context, cfg Config) error {
	level, _ := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	protocol, closeLog, err := protocolLogger(cfg, logger, level)
	if err != nil {
		return err
	}
	defer closeLog()

	cat := catalog.Default()
	if cfg.Catalog != "" {
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return err
		}
	}

	table := firmware.NewTable()
	board := &builtin.Board{
		LED:   &builtin.LED{},
		UART0: builtin.NewUART(cfg.UARTBuffer),
		GPIO:  &builtin.GPIO{},
	}
	if err := board.Install(table, cat); err != nil {
		return fmt.Errorf("installing modules: %w", err)
	}
	for _, m := range table.Modules() {
		logger.Info("module installed", "name", m.Name, "version", m.Version,
			"identifier", fmt.Sprintf("0x%08x", m.Identifier), "functions", len(m.Functions))
	}

	fw := firmware.NewServer(table, firmware.ServerConfig{
		Device:         cfg.Name,
		Logger:         logger,
		ProtocolLogger: protocol,
		MaxPayload:     wire.PayloadLimit(cfg.MaxMessageSize),
	})

	srv := transport.NewServer(transport.ServerConfig{
		Address:        cfg.Listen,
		MaxMessageSize: cfg.MaxMessageSize,
		KeepAlive:      cfg.KeepAlive,
		Logger:         logger,
		ProtocolLogger: protocol,
		OnConnect: func(conn *transport.Conn) {
			logger.Info("host connected", "conn", conn.ID(), "remote", conn.RemoteAddr().String())
		},
		OnDisconnect: func(conn *transport.Conn) {
			logger.Info("host disconnected", "conn", conn.ID())
		},
		OnMessage: func(conn *transport.Conn, msg []byte) {
			fw.HandleFrame(ctx, conn, msg)
		},
		OnError: func(conn *transport.Conn, err error) {
			if conn == nil {
				logger.Warn("accept failed", "error", err)
				return
			}
			logger.Warn("connection error", "conn", conn.ID(), "error", err)
		},
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("device listening", "name", cfg.Name, "addr", srv.Addr().String())

	<-ctx.Done()
	logger.Info("shutting down", "connections", srv.ConnectionCount())
	return srv.Stop()
}

// protocolLogger builds the protocol event sink. At debug level events are
// also echoed through slog.
func protocolLogger(cfg Config, logger *slog.Logger, level slog.Level) (protolog.Logger, func(), error) {
	var sinks []protolog.Logger
	closeFn := func() {}

	if cfg.ProtocolLog != "" {
		fl, err := protolog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return nil, nil, fmt.Errorf("opening protocol log: %w", err)
		}
		sinks = append(sinks, fl)
		closeFn = func() {
			if err := fl.Err(); err != nil {
				logger.Warn("protocol log incomplete", "path", fl.Path(), "error", err)
			}
			logger.Info("protocol log closed", "path", fl.Path(), "events", fl.Written())
			_ = fl.Close()
		}
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog)
	}
	if level <= slog.LevelDebug {
		sinks = append(sinks, protolog.NewSlogAdapter(logger))
	}

	switch len(sinks) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return sinks[0], closeFn, nil
	default:
		return protolog.NewMultiLogger(sinks...), closeFn, nil
	}
}
