package core

import "testing"

func vlosSnapshot(t *testing.T, cfg *VLOSConfig, waivers ...*BVLOSWaiver) ZoneSnapshot {
	t.Helper()
	reg := NewZoneRegistry()
	reg.SetVLOSConfig(cfg)
	for _, w := range waivers {
		if err := reg.AddBVLOSWaiver(w); err != nil {
			t.Fatalf("AddBVLOSWaiver(%s): %v", w.ID, err)
		}
	}
	return reg.Snapshot()
}

func TestVLOSWithinRange(t *testing.T) {
	snap := vlosSnapshot(t, &VLOSConfig{
		Enabled:     true,
		MaxRange:    500,
		CheckMethod: VLOSHorizontal,
	})

	e := NewEvaluator()
	res := e.CheckVLOS(snap, Position{North: 300, Down: -120}, nil)

	// Horizontal method ignores altitude: distance is 300, not 3D.
	if res.Verdict != VerdictOK {
		t.Fatalf("300m within a 500m envelope should be OK, got %v (%s)", res.Verdict, res.Reason)
	}
	if res.Distance != 300 {
		t.Errorf("distance = %v, want 300 (horizontal)", res.Distance)
	}
}

func TestVLOSBoundaryInclusive(t *testing.T) {
	snap := vlosSnapshot(t, &VLOSConfig{Enabled: true, MaxRange: 500, CheckMethod: VLOSHorizontal})
	e := NewEvaluator()

	// Exactly at max range is still within VLOS (violation only
	// beyond it).
	if res := e.CheckVLOS(snap, Position{North: 500}, nil); res.Verdict != VerdictOK {
		t.Errorf("exactly 500m should be within VLOS, got %v", res.Verdict)
	}
	if res := e.CheckVLOS(snap, Position{North: 500.1}, nil); res.Verdict != VerdictViolation {
		t.Errorf("500.1m without a waiver should violate, got %v", res.Verdict)
	}
}

func TestBVLOSSpecialPermitExtendsRange(t *testing.T) {
	snap := vlosSnapshot(t,
		&VLOSConfig{Enabled: true, MaxRange: 500, CheckMethod: VLOSHorizontal},
		&BVLOSWaiver{ID: "permit-1", Type: WaiverSpecialPermit, MaxEffectiveRange: 5000},
	)
	e := NewEvaluator()
	target := Position{North: 3000}

	// Waiver not enabled for the mission: violation.
	if res := e.CheckVLOS(snap, target, nil); res.Verdict != VerdictViolation {
		t.Errorf("waiver exists but is not enabled; expected violation, got %v", res.Verdict)
	}

	// Waiver enabled and covering: OK with the waiver as evidence.
	res := e.CheckVLOS(snap, target, []string{"permit-1"})
	if res.Verdict != VerdictOK {
		t.Fatalf("enabled permit should cover 3000m, got %v (%s)", res.Verdict, res.Reason)
	}
	if res.WaiverID != "permit-1" {
		t.Errorf("evidence waiver = %q, want permit-1", res.WaiverID)
	}

	// Beyond even the permit range: violation.
	if res := e.CheckVLOS(snap, Position{North: 6000}, []string{"permit-1"}); res.Verdict != VerdictViolation {
		t.Errorf("6000m exceeds the 5000m permit, expected violation, got %v", res.Verdict)
	}
}

func TestBVLOSVisualObserverCoverage(t *testing.T) {
	snap := vlosSnapshot(t,
		&VLOSConfig{Enabled: true, MaxRange: 500, CheckMethod: VLOSHorizontal},
		&BVLOSWaiver{
			ID:                "observer-1",
			Type:              WaiverVisualObserver,
			MaxEffectiveRange: 1100,
			ObserverPosition:  Position{North: 900},
			ObserverVLOSRange: 500,
		},
	)
	e := NewEvaluator()

	// Target beyond the operator's VLOS but within the observer's.
	covered := e.CheckVLOS(snap, Position{North: 1100}, []string{"observer-1"})
	if covered.Verdict != VerdictOK || covered.WaiverID != "observer-1" {
		t.Errorf("observer at 900 covers a target at 1100 (200m away): %+v", covered)
	}

	// Target beyond the observer's own range too.
	uncovered := e.CheckVLOS(snap, Position{North: 1500}, []string{"observer-1"})
	if uncovered.Verdict != VerdictViolation {
		t.Errorf("target 600m from the observer exceeds its 500m range: %+v", uncovered)
	}
}

func TestBVLOSBestAvailableWaiver(t *testing.T) {
	snap := vlosSnapshot(t,
		&VLOSConfig{Enabled: true, MaxRange: 500, CheckMethod: VLOSHorizontal},
		&BVLOSWaiver{ID: "radar", Type: WaiverTechnicalMeans, MaxEffectiveRange: 2000},
		&BVLOSWaiver{ID: "permit", Type: WaiverSpecialPermit, MaxEffectiveRange: 5000},
	)
	e := NewEvaluator()

	// Both waivers cover 1500m; the evidence should name the one with
	// the greatest effective range.
	res := e.CheckVLOS(snap, Position{North: 1500}, []string{"radar", "permit"})
	if res.Verdict != VerdictOK {
		t.Fatalf("expected OK, got %v (%s)", res.Verdict, res.Reason)
	}
	if res.WaiverID != "permit" {
		t.Errorf("best-available resolution should pick the permit, got %q", res.WaiverID)
	}
}

func TestVLOSDisabledNotApplicable(t *testing.T) {
	e := NewEvaluator()
	res := e.CheckVLOS(NewZoneRegistry().Snapshot(), Position{North: 9999}, nil)
	if res.Verdict != VerdictNotApplicable {
		t.Errorf("no VLOS config should be NOT_APPLICABLE, got %v", res.Verdict)
	}
}

func TestVLOSMalformedRangeFailsClosed(t *testing.T) {
	snap := vlosSnapshot(t, &VLOSConfig{Enabled: true, MaxRange: 0})
	e := NewEvaluator()
	if res := e.CheckVLOS(snap, Position{}, nil); res.Verdict != VerdictViolation {
		t.Errorf("VLOS enabled without a range must fail closed, got %v", res.Verdict)
	}
}

func TestVLOS3DMethod(t *testing.T) {
	snap := vlosSnapshot(t, &VLOSConfig{Enabled: true, MaxRange: 500, CheckMethod: VLOS3D})
	e := NewEvaluator()

	// 3-4-5 scaled: horizontal 400, vertical 300 -> 3D distance 500.
	res := e.CheckVLOS(snap, Position{North: 400, Down: -300}, nil)
	if res.Distance != 500 {
		t.Errorf("3D distance = %v, want 500", res.Distance)
	}
	if res.Verdict != VerdictOK {
		t.Errorf("exactly 500m in 3D should be OK, got %v", res.Verdict)
	}
}
