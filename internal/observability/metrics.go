package observability

import "sync"

// Counter names for sync activity.
const (
	MetricIntentsApplied  = "intents_applied"
	MetricEditsConfirmed  = "edits_confirmed"
	MetricEditsRolledBack = "edits_rolled_back"
	MetricEventsMerged    = "events_merged"
	MetricEventsBuffered  = "events_buffered"
	MetricEventsDropped   = "events_dropped"
	MetricRefetches       = "refetches"
)

// Metrics provides basic in-memory counters. A nil receiver is valid
// and counts nothing, so callers never need to guard.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]int64)}
}

// Inc increments a named counter.
func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Get returns one counter's value.
func (m *Metrics) Get(name string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Snapshot copies all counters for reporting.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}
