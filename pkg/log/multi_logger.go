package log

// MultiLogger fans each event out to a fixed set of sinks, typically a
// FileLogger for capture plus a SlogAdapter for the console.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger returns a MultiLogger over loggers. Nil entries are
// skipped and nested MultiLoggers are flattened.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		switch l := l.(type) {
		case nil:
		case *MultiLogger:
			if l != nil {
				m.sinks = append(m.sinks, l.sinks...)
			}
		default:
			m.sinks = append(m.sinks, l)
		}
	}
	return m
}

// Len reports the number of sinks.
func (m *MultiLogger) Len() int { return len(m.sinks) }

// Log forwards event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
