package server

import (
	"sync"
	"time"

	"github.com/scanworks/passport-scanner/internal/batch"
)

// Batches holds one in-memory batch per login session, keyed by the session
// cookie value. A fresh login gets a fresh cookie and therefore an empty
// batch; nothing carries over after logout. Entries idle for longer than the
// session TTL are dropped on the next lookup.
type Batches struct {
	ttl         time.Duration
	newDetector func() batch.Detector
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]*batchEntry
}

type batchEntry struct {
	session  *batch.Session
	lastSeen time.Time
}

func NewBatches(ttl time.Duration, newDetector func() batch.Detector) *Batches {
	if ttl <= 0 {
		ttl = 5 * 24 * time.Hour
	}
	if newDetector == nil {
		newDetector = func() batch.Detector { return batch.NewSeenSet() }
	}
	return &Batches{
		ttl:         ttl,
		newDetector: newDetector,
		now:         time.Now,
		entries:     make(map[string]*batchEntry),
	}
}

// Get returns the batch owned by the given session key, creating an empty
// one on first use.
func (b *Batches) Get(key string) *batch.Session {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, e := range b.entries {
		if now.Sub(e.lastSeen) > b.ttl {
			delete(b.entries, k)
		}
	}
	e, ok := b.entries[key]
	if !ok {
		e = &batchEntry{session: batch.NewSession(b.newDetector())}
		b.entries[key] = e
	}
	e.lastSeen = now
	return e.session
}
