package core

import (
	"testing"
	"time"
)

func TestIsWithinWindow(t *testing.T) {
	cases := []struct {
		now, start, end string
		want            bool
	}{
		// Midnight-spanning window 18:30-05:30.
		{"23:00", "18:30", "05:30", true},
		{"12:00", "18:30", "05:30", false},
		{"18:30", "18:30", "05:30", true},  // start inclusive
		{"05:30", "18:30", "05:30", false}, // end exclusive
		{"00:00", "18:30", "05:30", true},
		// Plain window 09:00-17:00.
		{"09:00", "09:00", "17:00", true},
		{"17:00", "09:00", "17:00", false},
		{"08:59", "09:00", "17:00", false},
		{"12:34", "09:00", "17:00", true},
	}

	for _, tc := range cases {
		got, err := IsWithinWindow(tc.now, tc.start, tc.end)
		if err != nil {
			t.Fatalf("IsWithinWindow(%q, %q, %q) error: %v", tc.now, tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Errorf("IsWithinWindow(%q, %q, %q) = %v, want %v", tc.now, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestIsWithinWindowMalformed(t *testing.T) {
	if _, err := IsWithinWindow("25:00", "09:00", "17:00"); err == nil {
		t.Errorf("expected error for out-of-range hour")
	}
	if _, err := IsWithinWindow("noon", "09:00", "17:00"); err == nil {
		t.Errorf("expected error for non-numeric time")
	}
}

func TestRestrictionActive(t *testing.T) {
	r := &TimeRestriction{
		ActiveStart: "2026-08-20T08:00:00Z",
		ActiveEnd:   "2026-08-20T18:00:00Z",
	}

	during := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	before := time.Date(2026, 8, 20, 7, 59, 0, 0, time.UTC)
	atStart := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	atEnd := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)

	if !RestrictionActive(r, during) {
		t.Errorf("expected restriction active during window")
	}
	if RestrictionActive(r, before) {
		t.Errorf("expected restriction inactive before start")
	}
	if !RestrictionActive(r, atStart) {
		t.Errorf("start boundary should be inclusive")
	}
	if RestrictionActive(r, atEnd) {
		t.Errorf("end boundary should be exclusive")
	}
}

func TestRestrictionActiveNilAndUnparsable(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	if !RestrictionActive(nil, now) {
		t.Errorf("no restriction should mean permanently active")
	}

	// Parse failure fails safe: the restriction is assumed to apply.
	broken := &TimeRestriction{ActiveStart: "not-a-time", ActiveEnd: "2026-08-20T18:00:00Z"}
	if !RestrictionActive(broken, now) {
		t.Errorf("unparsable restriction should be treated as active")
	}
}

func TestActiveGeofencesFiltersExpiredTFR(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	zones := []GeofenceZone{
		{ID: "permanent", Radius: 100, Action: ActionReject},
		{ID: "expired-tfr", Radius: 100, Action: ActionReject, Restriction: &TimeRestriction{
			ActiveStart: "2026-08-19T00:00:00Z",
			ActiveEnd:   "2026-08-19T06:00:00Z",
		}},
		{ID: "live-tfr", Radius: 100, Action: ActionReject, Restriction: &TimeRestriction{
			ActiveStart: "2026-08-20T00:00:00Z",
			ActiveEnd:   "2026-08-21T00:00:00Z",
		}},
	}

	active := ActiveGeofences(zones, now)
	if len(active) != 2 {
		t.Fatalf("expected 2 active zones, got %d", len(active))
	}
	for _, z := range active {
		if z.ID == "expired-tfr" {
			t.Errorf("expired TFR should have been filtered out")
		}
	}
}

func TestNightPeriod(t *testing.T) {
	n := DefaultNightPeriod()

	night, err := n.IsNight(time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("IsNight: %v", err)
	}
	if !night {
		t.Errorf("23:00 should be night for the default 18:30-05:30 period")
	}

	day, err := n.IsNight(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("IsNight: %v", err)
	}
	if day {
		t.Errorf("12:00 should not be night")
	}
}
