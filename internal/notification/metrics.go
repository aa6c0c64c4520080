package notification

import (
	"sync"
	"time"
)

// Stats counts dispatcher outcomes since start
type Stats struct {
	Queued     int64     `json:"queued"`
	Sent       int64     `json:"sent"`
	Failed     int64     `json:"failed"`
	Dropped    int64     `json:"dropped"`
	Skipped    int64     `json:"skipped"`
	Published  int64     `json:"published"`
	LastSentAt time.Time `json:"lastSentAt"`
	QueueDepth int       `json:"queueDepth"`
}

// StatsTracker provides a goroutine-safe wrapper around Stats.
type StatsTracker struct {
	mu    sync.RWMutex
	stats Stats
}

func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Update applies a mutation in a thread-safe way.
func (t *StatsTracker) Update(fn func(*Stats)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.stats)
}

// Snapshot returns a copy of the current stats.
func (t *StatsTracker) Snapshot() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}
