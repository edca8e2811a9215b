package core

import (
	"reflect"
	"testing"
	"time"
)

func TestDecisionPrecedence(t *testing.T) {
	e := NewEvaluator()

	cases := []struct {
		name string
		dims []DimensionResult
		want Decision
	}{
		{
			"all clean",
			[]DimensionResult{{Dimension: DimensionGeofence, Verdict: VerdictOK}},
			DecisionApprove,
		},
		{
			"warning only",
			[]DimensionResult{{Dimension: DimensionGeofence, Verdict: VerdictOK, Advisory: true}},
			DecisionApproveWarning,
		},
		{
			"stop advisory outranks warning",
			[]DimensionResult{
				{Dimension: DimensionGeofence, Verdict: VerdictOK, Advisory: true},
				{Dimension: DimensionGeofence, Verdict: VerdictOK, Advisory: true, StopAdvised: true},
			},
			DecisionApproveWithStop,
		},
		{
			"violation outranks everything",
			[]DimensionResult{
				{Dimension: DimensionGeofence, Verdict: VerdictOK, Advisory: true, StopAdvised: true},
				{Dimension: DimensionAltitude, Verdict: VerdictViolation},
			},
			DecisionReject,
		},
		{
			"not applicable dimensions don't flag",
			[]DimensionResult{
				{Dimension: DimensionSpeed, Verdict: VerdictNotApplicable},
				{Dimension: DimensionVLOS, Verdict: VerdictNotApplicable},
			},
			DecisionApprove,
		},
	}

	for _, tc := range cases {
		got := e.Synthesize(tc.dims)
		if got.Decision != tc.want {
			t.Errorf("%s: decision = %v, want %v", tc.name, got.Decision, tc.want)
		}
	}
}

func TestSynthesizeSeverityFromDeepestViolation(t *testing.T) {
	e := NewEvaluator() // thresholds 100 / 300

	cases := []struct {
		depth float64
		want  Severity
	}{
		{0, SeverityNone},
		{50, SeverityLow},
		{100, SeverityMedium},
		{250, SeverityMedium},
		{300, SeverityHigh},
		{900, SeverityHigh},
	}
	for _, tc := range cases {
		dims := []DimensionResult{}
		if tc.depth > 0 {
			dims = append(dims, DimensionResult{
				Dimension: DimensionGeofence, Verdict: VerdictViolation, Depth: tc.depth,
			})
		}
		if got := e.Synthesize(dims); got.Severity != tc.want {
			t.Errorf("depth %v: severity = %v, want %v", tc.depth, got.Severity, tc.want)
		}
	}
}

func TestSynthesizeCollectsEvidence(t *testing.T) {
	e := NewEvaluator()
	dims := []DimensionResult{
		{Dimension: DimensionGeofence, Verdict: VerdictViolation, ZoneID: "nfz-1", Depth: 40},
		{Dimension: DimensionAltitude, Verdict: VerdictOK},
		{Dimension: DimensionSpeed, Verdict: VerdictOK, Advisory: true},
	}

	got := e.Synthesize(dims)
	if len(got.Dimensions) != 3 {
		t.Errorf("all dimension records must be retained, got %d", len(got.Dimensions))
	}
	if len(got.Violations) != 1 || got.Violations[0].ZoneID != "nfz-1" {
		t.Errorf("violations = %+v, want the nfz-1 record", got.Violations)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("warnings = %+v, want one advisory record", got.Warnings)
	}
}

// Evaluating the same input twice must yield an identical result:
// there is no hidden mutable state anywhere in the pipeline.
func TestPreflightIdempotence(t *testing.T) {
	reg := NewZoneRegistry()
	if err := reg.AddGeofence(&GeofenceZone{
		ID: "nfz-1", Center: Position{}, Radius: 500, SafetyMargin: 500, Action: ActionReject,
	}); err != nil {
		t.Fatalf("AddGeofence: %v", err)
	}
	if err := reg.AddAltitudeZone(&AltitudeZone{
		ID: "default", Radius: -1, LimitAGL: 120, Priority: 5,
	}); err != nil {
		t.Fatalf("AddAltitudeZone: %v", err)
	}
	snap := reg.Snapshot()

	e := NewEvaluator()
	m := Mission{
		Start:  Position{North: 700, East: 0, Down: -50},
		Target: Position{North: 0, East: 0, Down: -50},
		Time:   time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Roster: []DroneState{{ID: "d2", Position: Position{North: 2000}}},
	}

	first := e.PreflightCheck(snap, m)
	second := e.PreflightCheck(snap, m)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("evaluation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Decision != DecisionReject {
		t.Errorf("path through the zone center must reject, got %v", first.Decision)
	}
}

func TestPreflightRejectsNonFiniteInput(t *testing.T) {
	e := NewEvaluator()
	m := Mission{
		Start:  Position{North: nan()},
		Target: Position{},
		Time:   time.Now(),
	}
	res := e.PreflightCheck(NewZoneRegistry().Snapshot(), m)
	if res.Decision != DecisionReject {
		t.Errorf("non-finite input must produce the most conservative decision, got %v", res.Decision)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestMonitorTickStopOnObstacle(t *testing.T) {
	reg := NewZoneRegistry()
	if err := reg.AddGeofence(&GeofenceZone{
		ID: "crane", Center: Position{North: 60}, Radius: 10,
		Action: ActionWarn, ZoneType: "obstacle",
	}); err != nil {
		t.Fatalf("AddGeofence: %v", err)
	}

	e := NewEvaluator()
	m := Mission{Time: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)}
	state := DroneState{ID: "d1", Position: Position{Down: -40}, SpeedMS: 5}

	res := e.MonitorTick(reg.Snapshot(), state, m)
	if res.Decision != DecisionApproveWithStop {
		t.Errorf("obstacle 60m ahead (< 80m stop distance) should advise stop, got %v", res.Decision)
	}
}
