package observability

import (
	"strconv"
	"sync"
	"time"
)

// Classification sources recorded against the classification counters.
const (
	SourceRemote    = "remote"
	SourceHeuristic = "heuristic"
	SourceCache     = "cache"
)

// Metrics provides basic in-memory counters for the pipeline.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	classifications map[string]int64
	fallbacks       int64
	ticketsCreated  int64
	lookupHits      int64
	lookupMisses    int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		classifications: make(map[string]int64),
	}
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordClassification counts a completed classification by label and source.
func (m *Metrics) RecordClassification(label, source string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifications[label+"|"+source]++
	if source == SourceHeuristic {
		m.fallbacks++
	}
}

// RecordTicketCreated counts a ticket persisted by the feedback handler.
func (m *Metrics) RecordTicketCreated() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketsCreated++
}

// RecordLookup counts a ticket status lookup and whether it hit.
func (m *Metrics) RecordLookup(found bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if found {
		m.lookupHits++
	} else {
		m.lookupMisses++
	}
}

// Snapshot returns a copy of the pipeline counters for the health surface.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[string]int64, len(m.classifications)+4)
	for key, count := range m.classifications {
		snap["classifications:"+key] = count
	}
	snap["classifier_fallbacks"] = m.fallbacks
	snap["tickets_created"] = m.ticketsCreated
	snap["lookup_hits"] = m.lookupHits
	snap["lookup_misses"] = m.lookupMisses
	return snap
}
