// Package feed fans out updated stock records to subscribers. Every message
// is a full-record replace keyed by stock id, so consumers tolerate dropped
// or out-of-order deliveries.
package feed

import (
	"sync"

	"papertrade/internal/models"
)

const subscriberBuffer = 16

type Feed struct {
	mu   sync.RWMutex
	subs map[chan models.Stock]struct{}
}

func New() *Feed {
	return &Feed{subs: make(map[chan models.Stock]struct{})}
}

// Subscribe registers a consumer. The returned cancel func must be called to
// release the channel; after cancel the channel is closed.
func (f *Feed) Subscribe() (<-chan models.Stock, func()) {
	ch := make(chan models.Stock, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the updated stock to every subscriber. A subscriber whose
// buffer is full misses the update; the next publish carries the full record
// anyway.
func (f *Feed) Publish(s models.Stock) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
