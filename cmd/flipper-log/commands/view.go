package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wastevensv/flipper/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// RunView prints every event in the file that matches filter.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	return reader.Each(func(ev log.Event) error {
		formatEvent(w, ev)
		return nil
	})
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeLayout)

	source := "[local]"
	if event.ConnectionID != "" {
		source = "[conn:" + shortenConnID(event.ConnectionID) + "]"
	}
	if event.Device != "" {
		source += " " + event.Device
	}

	layer := event.Layer.String()
	if event.Category == log.CategoryControl {
		layer = "CTRL"
	}

	fmt.Fprintf(w, "%s %s %-3s %s %s\n", ts, source, event.Direction, layer, typeLabel(event))

	switch {
	case event.Frame != nil:
		formatFrame(w, event.Frame)
	case event.Message != nil:
		formatMessage(w, event.Message)
	case event.StateChange != nil:
		formatStateChange(w, event.StateChange)
	case event.ControlMsg != nil:
		if event.ControlMsg.Sequence != 0 {
			fmt.Fprintf(w, "  Sequence: %d\n", event.ControlMsg.Sequence)
		}
	case event.Error != nil:
		formatError(w, event.Error)
	case event.Call != nil:
		formatCall(w, event.Call)
	case event.Bind != nil:
		formatBind(w, event.Bind)
	}

	fmt.Fprintln(w)
}

func typeLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Message != nil:
		return event.Message.Type.String()
	case event.StateChange != nil:
		return "State"
	case event.ControlMsg != nil:
		return event.ControlMsg.Type.String()
	case event.Error != nil:
		return "Error"
	case event.Call != nil:
		return "Call"
	case event.Bind != nil:
		return "Bind"
	default:
		return "Unknown"
	}
}

func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrame(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessage(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  MessageID: %d\n", msg.MessageID)

	switch msg.Type {
	case log.MessageTypeRequest:
		if msg.Class != nil {
			fmt.Fprintf(w, "  Class: %s\n", msg.Class)
		}
		if msg.Module != nil {
			fmt.Fprintf(w, "  Module: %d", *msg.Module)
			if msg.Function != nil {
				fmt.Fprintf(w, "  Function: %d", *msg.Function)
			}
			fmt.Fprintln(w)
		}
		if len(msg.Args) > 0 {
			fmt.Fprintf(w, "  Args: %s (types 0x%x)\n", formatWords(msg.Args), msg.Types)
		}
		if msg.Length > 0 {
			fmt.Fprintf(w, "  Length: %d\n", msg.Length)
		}

	case log.MessageTypeResponse:
		if msg.Status != nil {
			fmt.Fprintf(w, "  Status: %s (%d)\n", msg.Status, *msg.Status)
		}
		if msg.ProcessingTime != nil {
			fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*msg.ProcessingTime))
		}
	}

	if msg.Record != nil {
		fmt.Fprintf(w, "  Record: %s\n", msg.Record)
	}
}

func formatStateChange(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatError(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

func formatCall(w io.Writer, c *log.CallEvent) {
	fmt.Fprintf(w, "  %s %s[%d].%d -> %s\n", c.Kind, c.Module, c.Index, c.Function, c.Return)
	if len(c.Args) > 0 {
		fmt.Fprintf(w, "  Args: %s (types 0x%x)\n", formatWords(c.Args), c.Types)
	}
	if c.Length > 0 {
		fmt.Fprintf(w, "  Length: %d\n", c.Length)
	}
	if c.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", c.Error)
	} else {
		fmt.Fprintf(w, "  Result: 0x%x\n", c.Result)
	}
	if c.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(c.Duration))
	}
}

func formatBind(w io.Writer, b *log.BindEvent) {
	fmt.Fprintf(w, "  %s module %s v%d id=0x%08x\n", b.Kind, b.Module, b.Version, b.Identifier)
	if b.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", b.Error)
	} else {
		fmt.Fprintf(w, "  Index: %d\n", b.Index)
	}
}

func formatWords(words []uint64) string {
	parts := make([]string, len(words))
	for i, v := range words {
		parts[i] = fmt.Sprintf("0x%x", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
