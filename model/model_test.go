package model

import (
	"testing"

	"github.com/skyfoundry/airspace-sentinel/core"
)

func TestDroneDefinitionState(t *testing.T) {
	d := DroneDefinition{ID: "d1", OperatorID: "op-1"}
	pos := core.Position{North: 10, East: 20, Down: -30}

	state := d.State(pos, 12)
	if state.ID != "d1" || state.OperatorID != "op-1" {
		t.Errorf("identity not carried: %+v", state)
	}
	if state.Position != pos || state.SpeedMS != 12 {
		t.Errorf("flight state not carried: %+v", state)
	}
}

func TestOperatorQualifications(t *testing.T) {
	op := OperatorProfile{ID: "op-1", NightTrained: true}
	lit := DroneDefinition{ID: "d1", AntiCollisionLight: true}
	dark := DroneDefinition{ID: "d2"}

	if q := op.Qualifications(lit); !q.NightTraining || !q.AntiCollisionLight {
		t.Errorf("qualifications = %+v, want both set", q)
	}
	if q := op.Qualifications(dark); q.AntiCollisionLight {
		t.Errorf("light flag should follow the airframe, got %+v", q)
	}
}

func TestNewAnalysisReport(t *testing.T) {
	rep := core.TrajectoryReport{DroneID: "d1", ViolationCount: 2}

	first := NewAnalysisReport("flight-001.json", rep)
	second := NewAnalysisReport("flight-001.json", rep)

	if first.ReportID == "" || second.ReportID == "" {
		t.Fatalf("report IDs must be populated")
	}
	if first.ReportID == second.ReportID {
		t.Errorf("report IDs must be unique, both %q", first.ReportID)
	}
	if first.DroneID != "d1" || first.ViolationCount != 2 {
		t.Errorf("trajectory report not embedded: %+v", first)
	}
	if first.GeneratedAt.IsZero() {
		t.Errorf("GeneratedAt must be stamped")
	}
}
