package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

var ts = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents() []log.Event {
	class := wire.ClassExecute
	module := int32(2)
	function := uint8(1)
	status := wire.StatusInvalidFunction
	processing := 1500 * time.Microsecond

	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction:    log.DirectionOut,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Frame:        &log.FrameEvent{Size: 128, Data: []byte{0xa1, 0x01}},
		},
		{
			Timestamp:    ts.Add(time.Millisecond),
			ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Device:       "sim",
			Message: &log.MessageEvent{
				Type:      log.MessageTypeRequest,
				MessageID: 42,
				Class:     &class,
				Module:    &module,
				Function:  &function,
				Types:     0x3,
				Args:      []uint64{0xFF},
			},
		},
		{
			Timestamp:    ts.Add(2 * time.Millisecond),
			ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Device:       "sim",
			Message: &log.MessageEvent{
				Type:           log.MessageTypeResponse,
				MessageID:      42,
				Status:         &status,
				ProcessingTime: &processing,
			},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond),
			Layer:     log.LayerCore,
			Category:  log.CategoryBind,
			Bind:      &log.BindEvent{Module: "gpio", Kind: "standard", Version: 1, Identifier: 0xE0B5F5D1, Index: 2},
		},
		{
			Timestamp: ts.Add(4 * time.Millisecond),
			Layer:     log.LayerCore,
			Category:  log.CategoryCall,
			Call: &log.CallEvent{
				Module: "gpio", Index: 2, Function: 2, Kind: "invoke", Return: value.U32,
				Types: 0x3, Args: []uint64{0xFF}, Result: 0x30, Duration: 2 * time.Millisecond,
			},
		},
		{
			Timestamp: ts.Add(5 * time.Millisecond),
			Layer:     log.LayerCore,
			Category:  log.CategoryCall,
			Call:      &log.CallEvent{Module: "uart0", Function: 4, Kind: "invoke", Return: value.Void, Error: "FAILED: uart0 disabled"},
		},
	}
}

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	output := buf.String()

	for _, want := range []string{"2026-01-28T10:15:32.123456Z", "[conn:abc12345]", "OUT", "TRANSPORT", "Frame", "128 bytes", "a101"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatMessageEvents(t *testing.T) {
	var buf bytes.Buffer
	events := sampleEvents()
	formatEvent(&buf, events[1])
	formatEvent(&buf, events[2])
	output := buf.String()

	for _, want := range []string{
		"REQUEST", "MessageID: 42", "Class: exec", "Module: 2  Function: 1", "Args: [0xff]",
		"RESPONSE", "Status: INVALID_FUNCTION", "Duration: 1.500ms", "sim",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatCoreEvents(t *testing.T) {
	var buf bytes.Buffer
	for _, e := range sampleEvents()[3:] {
		formatEvent(&buf, e)
	}
	output := buf.String()

	for _, want := range []string{
		"[local]", "CORE Bind", "standard module gpio v1 id=0xe0b5f5d1", "Index: 2",
		"invoke gpio[2].2 -> u32", "Result: 0x30", "Error: FAILED: uart0 disabled",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	filter, err := FilterOptions{Category: "call", Module: "gpio"}.Build()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "gpio[2]") {
		t.Errorf("expected gpio call, got: %s", output)
	}
	if strings.Contains(output, "uart0") || strings.Contains(output, "Bind") {
		t.Errorf("filter leaked events: %s", output)
	}
}

func TestFilterOptionsBuild(t *testing.T) {
	f, err := FilterOptions{
		Layer:     "WIRE",
		Direction: "in",
		TimeStart: "2026-01-28T10:00:00Z",
		Device:    "sim",
	}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if f.Layer == nil || *f.Layer != log.LayerWire {
		t.Errorf("layer = %v", f.Layer)
	}
	if f.Direction == nil || *f.Direction != log.DirectionIn {
		t.Errorf("direction = %v", f.Direction)
	}
	if f.TimeStart == nil || f.Device != "sim" {
		t.Errorf("unexpected filter %+v", f)
	}

	for _, bad := range []FilterOptions{
		{Layer: "service"},
		{Direction: "up"},
		{Category: "snapshot"},
		{TimeEnd: "yesterday"},
	} {
		if _, err := bad.Build(); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}

func TestStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 6", "TRANSPORT:", "WIRE:", "CORE:", "CALL:", "BIND:",
		"gpio:", "binds=1 calls=1 failures=0", "uart0:", "calls=1 failures=1",
		"Connections: 1", "abc12345: 3 events", "(device: sim)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out, log.Filter{}); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["ConnectionID"] != "abc12345-6789-0123-4567-890abcdef012" {
		t.Errorf("unexpected first event: %v", first)
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	filter, _ := FilterOptions{Layer: "core"}.Build()
	if err := RunExport(path, "csv", out, filter); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d: %s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "timestamp,connection_id") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Bind,gpio") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "x"), log.Filter{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
