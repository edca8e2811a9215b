package core

// Evaluator bundles the cross-dimension policy knobs: global limits,
// tolerances, exemption switches, and severity thresholds. Zones live
// in the snapshot; everything here is scenario-independent regulation
// defaults the scenario loader or caller may override.
//
// An Evaluator is immutable once configured, so one instance can be
// shared by the pre-flight checker, the 10 Hz monitor, and the offline
// analyzer without any locking — this is what keeps the three call
// sites from re-deriving the rules independently.
type Evaluator struct {
	// Altitude.
	GlobalAltitudeLimit float64 // metres AGL, applies outside all altitude zones

	// Speed. A zero global limit means "no global limit"; zone limits
	// still apply.
	GlobalSpeedLimitMS float64
	SpeedToleranceMS   float64

	// Payload / drop.
	MaxPayloadKg          float64
	DropRequiresApproval  bool
	AgriculturalExemption bool

	// Separation.
	MinSeparation          float64 // metres between any two active drones
	MaxDronesPerOperator   int
	SwarmApprovalThreshold int // roster size at which approval is mandatory

	// Approval timeline.
	RequiredAdvanceHours float64
	UncontrolledCeiling  float64 // metres; below this + outside controlled zones = exempt

	// Obstacle proximity that advises an immediate stop.
	ObstacleStopDistance float64

	Night    NightPeriod
	Severity SeverityThresholds
}

// NewEvaluator returns an evaluator with the regulation defaults used
// across the recorded scenarios: 120 m global ceiling, 5 kg payload,
// 36 h advance notice, 80 m obstacle stop distance.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		GlobalAltitudeLimit:    120,
		GlobalSpeedLimitMS:     0,
		SpeedToleranceMS:       0,
		MaxPayloadKg:           5,
		DropRequiresApproval:   true,
		AgriculturalExemption:  true,
		MinSeparation:          50,
		MaxDronesPerOperator:   5,
		SwarmApprovalThreshold: 10,
		RequiredAdvanceHours:   36,
		UncontrolledCeiling:    120,
		ObstacleStopDistance:   80,
		Night:                  DefaultNightPeriod(),
		Severity:               DefaultSeverityThresholds(),
	}
}

// PreflightCheck runs every dimension against the planned mission:
// the path from start to target plus the mission's metadata. It is the
// single entry point the one-shot checker uses before takeoff.
func (e *Evaluator) PreflightCheck(snap ZoneSnapshot, m Mission) EvaluationResult {
	if !m.Valid() {
		return invalidInputResult()
	}

	dims := []DimensionResult{
		e.CheckPathGeofence(snap, m.Start, m.Target, m.Time),
		e.CheckAltitude(snap, m.Target),
		e.CheckSpeed(snap, m.Target, m.SpeedMS),
		e.CheckTimeWindow(snap, m.Target, m),
		e.CheckVLOS(snap, m.Target, m.EnabledWaiverIDs),
		e.CheckPayload(m.PayloadKg),
		e.CheckSeparation(DroneState{ID: m.ID, OperatorID: m.OperatorID, Position: m.Target}, m.Roster, m.SwarmWaiverApproved),
		e.CheckTimeline(snap, m),
	}
	if m.IncludeDrop {
		dims = append(dims, e.CheckDrop(snap, m.Target, m))
	}

	return e.Synthesize(dims)
}

// MonitorTick runs the in-flight dimensions against one drone's
// current state. It omits the pre-flight-only dimensions (timeline,
// drop) and adds the obstacle stop-distance check; the caller invokes
// it once per control tick, so the work here is O(zones) plus
// O(roster) for separation.
func (e *Evaluator) MonitorTick(snap ZoneSnapshot, state DroneState, m Mission) EvaluationResult {
	if !state.Position.IsFinite() || !m.Valid() {
		return invalidInputResult()
	}

	dims := []DimensionResult{
		e.CheckGeofence(snap, state.Position, m.Time),
		e.CheckObstacleProximity(snap, state.Position, m.Time),
		e.CheckAltitude(snap, state.Position),
		e.CheckSpeed(snap, state.Position, state.SpeedMS),
		e.CheckTimeWindow(snap, state.Position, m),
		e.CheckVLOS(snap, state.Position, m.EnabledWaiverIDs),
		e.CheckSeparation(state, m.Roster, m.SwarmWaiverApproved),
	}

	return e.Synthesize(dims)
}

// invalidInputResult is the conservative output for non-finite input:
// the synthesizer never fails, so bad input becomes the most
// restrictive decision with a single explanatory record.
func invalidInputResult() EvaluationResult {
	rec := DimensionResult{
		Dimension: DimensionGeofence,
		Verdict:   VerdictViolation,
		Reason:    "non-finite position in input",
	}
	return EvaluationResult{
		Decision:   DecisionReject,
		Severity:   SeverityNone,
		Dimensions: []DimensionResult{rec},
		Violations: []DimensionResult{rec},
	}
}
