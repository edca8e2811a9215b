package core

import "time"

// DroneState is one vehicle's instantaneous state as seen by the
// separation check and the in-flight monitor.
type DroneState struct {
	ID         string   `json:"id"`
	OperatorID string   `json:"operator_id,omitempty"`
	Position   Position `json:"position"`
	SpeedMS    float64  `json:"speed_ms,omitempty"`
}

// PilotQualifications captures the operator attributes the evaluators
// care about. Night fields matter only when the mission time falls in
// the night period.
type PilotQualifications struct {
	NightTraining      bool `json:"night_training"`
	AntiCollisionLight bool `json:"anti_collision_light"`
}

// Mission is the full evaluation input beyond the zone snapshot: where
// the flight goes, when, how fast, what it carries, and which waivers
// it holds. Missions are treated as immutable by the engine.
type Mission struct {
	ID string `json:"id,omitempty"`

	// OperatorID attributes the mission drone for the per-operator
	// fleet cap. Empty means unattributed.
	OperatorID string `json:"operator_id,omitempty"`

	Start  Position `json:"start"`
	Target Position `json:"target"`

	// Time is the simulated or wall-clock instant being evaluated.
	Time time.Time `json:"time"`

	SpeedMS   float64 `json:"speed_ms"`
	PayloadKg float64 `json:"payload_kg"`

	DroneType string `json:"drone_type,omitempty"` // "agricultural" or "general"

	// EnabledWaiverIDs selects which of the snapshot's BVLOS waivers
	// this mission actually holds.
	EnabledWaiverIDs []string `json:"enabled_waiver_ids,omitempty"`

	Pilot PilotQualifications `json:"pilot"`

	// Drop intent.
	IncludeDrop     bool `json:"include_drop"`
	HasDropApproval bool `json:"has_drop_approval"`

	// Fleet roster for the separation check; includes this drone's
	// peers only, not the mission drone itself.
	Roster []DroneState `json:"roster,omitempty"`

	// Swarm waiver lifts the per-operator drone cap when approved.
	SwarmWaiverApproved bool `json:"swarm_waiver_approved,omitempty"`

	// Approval timeline. ApplicationTime may be zero when no
	// application was filed.
	ApplicationTime   time.Time `json:"application_time,omitempty"`
	PlannedFlightTime time.Time `json:"planned_flight_time,omitempty"`
	Emergency         bool      `json:"emergency,omitempty"`
}

// Positions the mission touches; used for input validation.
func (m Mission) positions() []Position {
	ps := []Position{m.Start, m.Target}
	for _, d := range m.Roster {
		ps = append(ps, d.Position)
	}
	return ps
}

// Valid reports whether every position in the mission is finite.
// Non-finite input is rejected before any evaluator runs.
func (m Mission) Valid() bool {
	for _, p := range m.positions() {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
