package metrics

import "sync/atomic"

// Collector counts backend calls issued by the API client. Counts are
// process-local and read at shutdown for the debug summary.
type Collector struct {
	requests uint64
	errors   uint64
	retries  uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) Snapshot() (requests, errors uint64) {
	if c == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&c.requests), atomic.LoadUint64(&c.errors)
}
