package eventsub_service

import (
	"sync"
	"time"
)

// DeliveryCache remembers recently seen delivery message ids so redelivered
// notifications announce at most once. Entries expire after the window and
// the cache is capped, on overflow the oldest entries go first.
type DeliveryCache struct {
	mu         sync.Mutex
	window     time.Duration
	maxEntries int
	seen       map[string]time.Time
}

func NewDeliveryCache(window time.Duration, maxEntries int) *DeliveryCache {
	return &DeliveryCache{
		window:     window,
		maxEntries: maxEntries,
		seen:       make(map[string]time.Time),
	}
}

// SeenBefore records the message id and reports whether it was already
// recorded within the window.
func (dc *DeliveryCache) SeenBefore(messageID string) bool {
	now := time.Now()

	dc.mu.Lock()
	defer dc.mu.Unlock()

	for id, at := range dc.seen {
		if now.Sub(at) > dc.window {
			delete(dc.seen, id)
		}
	}

	if _, ok := dc.seen[messageID]; ok {
		return true
	}

	if len(dc.seen) >= dc.maxEntries {
		dc.evictOldest()
	}

	dc.seen[messageID] = now

	return false
}

func (dc *DeliveryCache) evictOldest() {
	var oldestID string
	var oldestAt time.Time

	for id, at := range dc.seen {
		if oldestID == "" || at.Before(oldestAt) {
			oldestID = id
			oldestAt = at
		}
	}

	if oldestID != "" {
		delete(dc.seen, oldestID)
	}
}
