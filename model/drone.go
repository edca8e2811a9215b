package model

import "github.com/skyfoundry/airspace-sentinel/core"

// DroneDefinition represents a registered airframe. Registration
// concerns live here; live flight state is tracked by the fleet roster.
type DroneDefinition struct {
	ID         string
	Name       string
	Type       string // e.g. "multirotor", "fixed_wing", "agricultural"
	OperatorID string

	MaxPayloadKg       float64
	AntiCollisionLight bool
}

// OperatorProfile represents the human (or organisation) responsible
// for one or more drones.
type OperatorProfile struct {
	ID   string
	Name string

	NightTrained bool
	// HeldWaiverIDs lists BVLOS waivers the operator may enable on a
	// mission. The evaluator only honors IDs present in the scenario.
	HeldWaiverIDs []string
	SwarmApproved bool
}

// State materialises the live flight state for this airframe.
func (d DroneDefinition) State(pos core.Position, speedMS float64) core.DroneState {
	return core.DroneState{
		ID:         d.ID,
		OperatorID: d.OperatorID,
		Position:   pos,
		SpeedMS:    speedMS,
	}
}

// Qualifications combines operator training with airframe equipment
// into the shape the night-flight rules consume.
func (o OperatorProfile) Qualifications(d DroneDefinition) core.PilotQualifications {
	return core.PilotQualifications{
		NightTraining:      o.NightTrained,
		AntiCollisionLight: d.AntiCollisionLight,
	}
}
