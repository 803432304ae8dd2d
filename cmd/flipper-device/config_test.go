package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name: bench
listen: 127.0.0.1:7000
uart_buffer: 4096
log_level: debug
keepalive:
  ping_interval: 10s
  pong_timeout: 3s
  max_missed_pongs: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bench", cfg.Name)
	assert.Equal(t, "127.0.0.1:7000", cfg.Listen)
	assert.Equal(t, 4096, cfg.UARTBuffer)
	require.NotNil(t, cfg.KeepAlive)
	assert.Equal(t, 10*time.Second, cfg.KeepAlive.PingInterval)
	assert.Equal(t, 3*time.Second, cfg.KeepAlive.PongTimeout)
	assert.Equal(t, 2, cfg.KeepAlive.MaxMissedPongs)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "name: lab\n"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, "lab", cfg.Name)
	assert.Equal(t, def.Listen, cfg.Listen)
	assert.Equal(t, def.UARTBuffer, cfg.UARTBuffer)
	assert.Nil(t, cfg.KeepAlive)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "listen: [\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "uart_buffer: 0\n"))
	assert.ErrorContains(t, err, "uart_buffer")

	_, err = LoadConfig(writeConfig(t, "log_level: loud\n"))
	assert.ErrorContains(t, err, "unknown log level")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestProtocolLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p, closeFn, err := protocolLogger(DefaultConfig(), logger, slog.LevelInfo)
	require.NoError(t, err)
	assert.Nil(t, p)
	closeFn()

	cfg := DefaultConfig()
	cfg.ProtocolLog = filepath.Join(t.TempDir(), "device.flog")
	p, closeFn, err = protocolLogger(cfg, logger, slog.LevelDebug)
	require.NoError(t, err)
	assert.NotNil(t, p)
	closeFn()
	assert.FileExists(t, cfg.ProtocolLog)
}
