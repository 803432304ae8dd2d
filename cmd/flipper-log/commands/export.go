package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/wastevensv/flipper/pkg/log"
)

type exporter func(r *log.Reader, w io.Writer) error

var exporters = map[string]exporter{
	"jsonl": exportJSONL,
	"csv":   exportCSV,
}

var csvHeader = []string{
	"timestamp", "connection_id", "direction", "layer", "category",
	"device", "type", "module", "message_id",
}

// RunExport converts the events of a capture that match filter into
// format. An empty output writes to stdout.
func RunExport(path, format, output string, filter log.Filter) error {
	export, ok := exporters[format]
	if !ok {
		names := make([]string, 0, len(exporters))
		for name := range exporters {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(names, ", "))
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer reader.Close()

	if output == "" {
		return export(reader, os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := export(reader, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSONL(r *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	return r.Each(func(ev log.Event) error {
		return enc.Encode(ev)
	})
}

func exportCSV(r *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	err := r.Each(func(ev log.Event) error {
		return cw.Write(csvRow(ev))
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(ev log.Event) []string {
	module, msgID := ev.ModuleName(), ""
	if m := ev.Message; m != nil {
		msgID = strconv.FormatUint(uint64(m.MessageID), 10)
		if m.Record != nil {
			module = m.Record.Name
		}
	}
	return []string{
		ev.Timestamp.UTC().Format(timeLayout),
		ev.ConnectionID,
		ev.Direction.String(),
		ev.Layer.String(),
		ev.Category.String(),
		ev.Device,
		typeLabel(ev),
		module,
		msgID,
	}
}
