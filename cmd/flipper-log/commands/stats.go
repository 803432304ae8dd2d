package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/wastevensv/flipper/pkg/log"
)

// Stats summarizes a capture.
type Stats struct {
	TotalEvents int
	Errors      int
	First, Last time.Time

	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int

	Connections map[string]*ConnectionStats
	Modules     map[string]*ModuleStats
}

// ConnectionStats covers the events seen on one connection.
type ConnectionStats struct {
	FirstSeen, LastSeen time.Time
	Events              int
	Device              string
}

// ModuleStats counts the binds and calls made against one module. A
// failed bind and a failed call both count as a failure.
type ModuleStats struct {
	Binds, Calls, Failures int
	TotalTime              time.Duration
}

// AvgCall returns the mean call duration.
func (m *ModuleStats) AvgCall() time.Duration {
	if m.Calls == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Calls)
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     map[log.Layer]int{},
		EventsByCategory:  map[log.Category]int{},
		EventsByDirection: map[log.Direction]int{},
		Connections:       map[string]*ConnectionStats{},
		Modules:           map[string]*ModuleStats{},
	}
}

// RunStats reads the capture at path and prints a summary to w.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer reader.Close()

	s := newStats()
	if err := reader.Each(func(ev log.Event) error {
		s.add(ev)
		return nil
	}); err != nil {
		return fmt.Errorf("read capture: %w", err)
	}
	return s.print(w)
}

func (s *Stats) add(ev log.Event) {
	s.TotalEvents++
	s.EventsByLayer[ev.Layer]++
	s.EventsByCategory[ev.Category]++
	s.EventsByDirection[ev.Direction]++

	if s.First.IsZero() || ev.Timestamp.Before(s.First) {
		s.First = ev.Timestamp
	}
	if ev.Timestamp.After(s.Last) {
		s.Last = ev.Timestamp
	}

	if id := ev.ConnectionID; id != "" {
		c := s.Connections[id]
		if c == nil {
			c = &ConnectionStats{FirstSeen: ev.Timestamp, LastSeen: ev.Timestamp}
			s.Connections[id] = c
		}
		c.Events++
		if ev.Timestamp.After(c.LastSeen) {
			c.LastSeen = ev.Timestamp
		}
		if c.Device == "" {
			c.Device = ev.Device
		}
	}

	if ev.Error != nil {
		s.Errors++
		return
	}
	name := ev.ModuleName()
	if name == "" {
		return
	}
	m := s.Modules[name]
	if m == nil {
		m = &ModuleStats{}
		s.Modules[name] = m
	}
	switch {
	case ev.Call != nil:
		m.Calls++
		m.TotalTime += ev.Call.Duration
		if ev.Call.Error != "" {
			m.Failures++
		}
	case ev.Bind != nil:
		m.Binds++
		if ev.Bind.Error != "" {
			m.Failures++
		}
	}
}

func (s *Stats) print(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "=== Flipper Protocol Log Statistics ===")
	if s.TotalEvents > 0 {
		fmt.Fprintf(w, "\nTime Range:\t%s to %s\n", s.First.Format(time.RFC3339), s.Last.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:\t%s\n", s.Last.Sub(s.First).Round(time.Second))
	}
	fmt.Fprintf(w, "\nTotal Events: %d\n", s.TotalEvents)

	printCounts(w, "Layer", s.EventsByLayer)
	printCounts(w, "Category", s.EventsByCategory)
	printCounts(w, "Direction", s.EventsByDirection)

	if len(s.Modules) > 0 {
		fmt.Fprintln(w, "\nModules:")
		for _, name := range slices.Sorted(maps.Keys(s.Modules)) {
			m := s.Modules[name]
			fmt.Fprintf(w, "  %s:\tbinds=%d calls=%d failures=%d avg=%s\n",
				name, m.Binds, m.Calls, m.Failures, formatDuration(m.AvgCall()))
		}
	}

	fmt.Fprintf(w, "\nConnections: %d\n", len(s.Connections))
	ids := slices.SortedFunc(maps.Keys(s.Connections), func(a, b string) int {
		return s.Connections[a].FirstSeen.Compare(s.Connections[b].FirstSeen)
	})
	for _, id := range ids {
		c := s.Connections[id]
		fmt.Fprintf(w, "  %s: %d events, %s", shortenConnID(id), c.Events, c.LastSeen.Sub(c.FirstSeen).Round(time.Millisecond))
		if c.Device != "" {
			fmt.Fprintf(w, " (device: %s)", c.Device)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nErrors: %d\n", s.Errors)
	return w.Flush()
}

// printCounts prints the non-zero counts of an enum in value order.
func printCounts[K interface {
	~uint8
	fmt.Stringer
}](w io.Writer, title string, counts map[K]int) {
	fmt.Fprintf(w, "\nEvents by %s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(w, "  %s:\t%d\n", k, n)
		}
	}
}
