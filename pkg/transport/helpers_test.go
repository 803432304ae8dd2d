package transport

import (
	"sync"

	"github.com/wastevensv/flipper/pkg/log"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingLogger) Events() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

func (r *recordingLogger) Count(cat log.Category) int {
	n := 0
	for _, e := range r.Events() {
		if e.Category == cat {
			n++
		}
	}
	return n
}
