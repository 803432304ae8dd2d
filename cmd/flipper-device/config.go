package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wastevensv/flipper/pkg/firmware/builtin"
	"github.com/wastevensv/flipper/pkg/transport"
)

// Config holds the device configuration. Values come from the YAML file
// first; flags given on the command line override them.
type Config struct {
	// Name identifies the device in protocol logs.
	Name string `yaml:"name"`

	// Listen is the TCP listen address.
	Listen string `yaml:"listen"`

	// Catalog is a module catalog file. Empty uses the built-in catalog.
	Catalog string `yaml:"catalog"`

	MaxMessageSize uint32 `yaml:"max_message_size"`

	// KeepAlive pings every connected host when set.
	KeepAlive *transport.KeepAliveConfig `yaml:"keepalive"`

	// UARTBuffer is the uart0 loopback buffer size.
	UARTBuffer int `yaml:"uart_buffer"`

	LogLevel    string `yaml:"log_level"`
	ProtocolLog string `yaml:"protocol_log"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Name:       "sim",
		Listen:     fmt.Sprintf(":%d", transport.DefaultPort),
		UARTBuffer: builtin.DefaultUARTBuffer,
		LogLevel:   "info",
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the device cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.UARTBuffer <= 0 {
		return fmt.Errorf("uart_buffer must be positive, got %d", c.UARTBuffer)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (use debug, info, warn, error)", s)
}
