package eventsub_service

import (
	"fmt"
	"testing"
	"time"
)

func TestDeliveryCache_SeenBefore(t *testing.T) {
	cache := NewDeliveryCache(time.Minute, 10)

	if cache.SeenBefore("msg-1") {
		t.Errorf("first delivery reported as seen")
	}
	if !cache.SeenBefore("msg-1") {
		t.Errorf("redelivery not reported as seen")
	}
	if cache.SeenBefore("msg-2") {
		t.Errorf("unrelated delivery reported as seen")
	}
}

func TestDeliveryCache_WindowExpiry(t *testing.T) {
	cache := NewDeliveryCache(10*time.Millisecond, 10)

	cache.SeenBefore("msg-1")
	time.Sleep(25 * time.Millisecond)

	if cache.SeenBefore("msg-1") {
		t.Errorf("delivery outside the window still reported as seen")
	}
}

func TestDeliveryCache_Bounded(t *testing.T) {
	cache := NewDeliveryCache(time.Minute, 3)

	for i := 0; i < 10; i++ {
		cache.SeenBefore(fmt.Sprintf("msg-%d", i))
	}

	cache.mu.Lock()
	size := len(cache.seen)
	cache.mu.Unlock()

	if size > 3 {
		t.Errorf("cache holds %d entries, cap is 3", size)
	}
}
