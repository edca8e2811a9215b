package core

import "testing"

func TestGlobalAltitudeLimitBoundary(t *testing.T) {
	e := NewEvaluator() // global limit 120
	snap := NewZoneRegistry().Snapshot()

	under := e.CheckAltitude(snap, Position{Down: -119.9})
	if under.Verdict != VerdictOK {
		t.Errorf("119.9m under a 120m limit should be OK, got %v", under.Verdict)
	}

	// At the limit is a violation: boundary comparisons are
	// "violation when value >= limit".
	at := e.CheckAltitude(snap, Position{Down: -120})
	if at.Verdict != VerdictViolation {
		t.Errorf("altitude exactly at the limit should violate, got %v", at.Verdict)
	}
	if at.Depth != 0 {
		t.Errorf("depth at the boundary = %v, want 0", at.Depth)
	}
}

// The structure-waiver property: a target at 150m altitude, 100m from
// a 100m structure with a 300m waiver radius and 100m allowance (total
// waiver altitude 200m), under a 120m global limit. The waiver
// governs, so 150 < 200 is OK.
func TestStructureWaiverOverridesGlobalLimit(t *testing.T) {
	reg := NewZoneRegistry()
	if err := reg.AddStructureWaiver(&StructureWaiver{
		ID:                  "tower-1",
		Location:            Position{North: 0, East: 0},
		HeightAGL:           100,
		WaiverRadius:        300,
		WaiverAltitudeAbove: 100,
	}); err != nil {
		t.Fatalf("AddStructureWaiver: %v", err)
	}

	e := NewEvaluator()
	target := Position{North: 100, East: 0, Down: -150}

	res := e.CheckAltitude(reg.Snapshot(), target)
	if res.Verdict != VerdictOK {
		t.Fatalf("waiver should govern (150 < 200), got %v (%s)", res.Verdict, res.Reason)
	}
	if res.WaiverID != "tower-1" {
		t.Errorf("evidence waiver = %q, want tower-1", res.WaiverID)
	}
	if res.Limit != 200 {
		t.Errorf("effective limit = %v, want 200", res.Limit)
	}

	// The same point without the waiver violates the global limit.
	bare := e.CheckAltitude(NewZoneRegistry().Snapshot(), target)
	if bare.Verdict != VerdictViolation {
		t.Errorf("150m under a 120m global limit should violate, got %v", bare.Verdict)
	}
}

func TestStructureWaiverOutsideRadiusDoesNotApply(t *testing.T) {
	reg := NewZoneRegistry()
	if err := reg.AddStructureWaiver(&StructureWaiver{
		ID:                  "tower-1",
		Location:            Position{},
		HeightAGL:           100,
		WaiverRadius:        300,
		WaiverAltitudeAbove: 100,
	}); err != nil {
		t.Fatalf("AddStructureWaiver: %v", err)
	}

	e := NewEvaluator()
	res := e.CheckAltitude(reg.Snapshot(), Position{North: 301, Down: -150})
	if res.Verdict != VerdictViolation {
		t.Errorf("outside the waiver radius the global limit governs, got %v", res.Verdict)
	}
}

func TestAltitudeZonePrioritySelection(t *testing.T) {
	reg := NewZoneRegistry()
	// Infinite catch-all at priority 10, a tighter urban core at
	// priority 1 overlapping the origin.
	if err := reg.AddAltitudeZone(&AltitudeZone{
		ID: "default", Radius: -1, LimitAGL: 120, Priority: 10,
	}); err != nil {
		t.Fatalf("AddAltitudeZone: %v", err)
	}
	if err := reg.AddAltitudeZone(&AltitudeZone{
		ID: "urban-core", Center: Position{}, Radius: 1000, LimitAGL: 60, Priority: 1,
	}); err != nil {
		t.Fatalf("AddAltitudeZone: %v", err)
	}

	e := NewEvaluator()
	snap := reg.Snapshot()

	inside := e.CheckAltitude(snap, Position{North: 100, Down: -80})
	if inside.Verdict != VerdictViolation || inside.ZoneID != "urban-core" {
		t.Errorf("urban core (priority 1, limit 60) should govern: %+v", inside)
	}

	outside := e.CheckAltitude(snap, Position{North: 5000, Down: -80})
	if outside.Verdict != VerdictOK || outside.ZoneID != "default" {
		t.Errorf("infinite zone should govern outside the core: %+v", outside)
	}
}

func TestAltitudeZoneTieBreakMostRestrictive(t *testing.T) {
	reg := NewZoneRegistry()
	if err := reg.AddAltitudeZone(&AltitudeZone{
		ID: "zone-a", Center: Position{}, Radius: 500, LimitAGL: 100, Priority: 1,
	}); err != nil {
		t.Fatalf("AddAltitudeZone: %v", err)
	}
	if err := reg.AddAltitudeZone(&AltitudeZone{
		ID: "zone-b", Center: Position{}, Radius: 500, LimitAGL: 80, Priority: 1,
	}); err != nil {
		t.Fatalf("AddAltitudeZone: %v", err)
	}

	e := NewEvaluator()
	res := e.CheckAltitude(reg.Snapshot(), Position{North: 10, Down: -90})

	if res.ZoneID != "zone-b" {
		t.Errorf("equal priority should tie-break to the lower limit, got %q", res.ZoneID)
	}
	if res.Verdict != VerdictViolation {
		t.Errorf("90m against the governing 80m limit should violate, got %v", res.Verdict)
	}
}

func TestAltitudeFailsClosedWithoutLimit(t *testing.T) {
	e := NewEvaluator()
	e.GlobalAltitudeLimit = 0 // malformed configuration

	res := e.CheckAltitude(NewZoneRegistry().Snapshot(), Position{Down: -10})
	if res.Verdict != VerdictViolation {
		t.Errorf("missing altitude limit must fail closed, got %v", res.Verdict)
	}
}
