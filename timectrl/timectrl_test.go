package timectrl

import (
	"sync"
	"testing"
	"time"
)

func TestTimeControllerSetTime(t *testing.T) {
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second, RealTime)

	newNow := start.Add(42 * time.Second)
	tc.SetTime(newNow)

	if got := tc.Now(); !got.Equal(newNow) {
		t.Fatalf("Now() = %v, want %v", got, newNow)
	}
}

func TestTimeControllerStartUpdatesNow(t *testing.T) {
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, 5*time.Millisecond, Accelerated)

	done := tc.Start(15 * time.Millisecond)
	<-done

	expected := start.Add(15 * time.Millisecond)
	if got := tc.Now(); !got.Equal(expected) {
		t.Fatalf("Now() = %v, want %v", got, expected)
	}
}

func TestTimeControllerNotifiesListeners(t *testing.T) {
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second, Accelerated)

	var mu sync.Mutex
	var ticks []time.Time
	tc.AddListener(func(now time.Time) {
		mu.Lock()
		ticks = append(ticks, now)
		mu.Unlock()
	})

	<-tc.Start(3 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) != 3 {
		t.Fatalf("listener fired %d times, want 3", len(ticks))
	}
	if !ticks[2].Equal(start.Add(3 * time.Second)) {
		t.Errorf("last tick = %v, want %v", ticks[2], start.Add(3*time.Second))
	}
}

func TestTimeControllerStop(t *testing.T) {
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, 5*time.Millisecond, RealTime)

	done := tc.Start(0) // unbounded
	tc.Stop()
	tc.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("controller did not stop")
	}
}
