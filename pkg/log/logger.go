package log

// Logger receives protocol events. Log is called from transport read loops
// and dispatcher calls, so implementations must be safe for concurrent use
// and must not block for long.
//
// Components treat a nil Logger as "capture disabled".
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) { f(event) }

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
)
