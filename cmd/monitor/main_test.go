package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/fleet"
)

func TestCursorAt(t *testing.T) {
	base := 1755600000.0
	points := []core.TrajectoryPoint{
		{Timestamp: base},
		{Timestamp: base + 1},
		{Timestamp: base + 2},
		{Timestamp: base + 10},
	}
	at := func(offset float64) time.Time {
		return time.Unix(int64(base)+int64(offset), 0).UTC()
	}

	cases := []struct {
		from int
		now  time.Time
		want int
	}{
		{0, at(0), 0},
		{0, at(1.0), 1},
		{0, at(5), 2},   // between samples: hold the last one passed
		{2, at(1), 2},   // never rewinds
		{0, at(100), 3}, // clamped to the final sample
	}
	for _, tc := range cases {
		if got := cursorAt(points, tc.from, tc.now); got != tc.want {
			t.Errorf("cursorAt(from=%d, now=%v) = %d, want %d", tc.from, tc.now, got, tc.want)
		}
	}
}

func TestTickMissionCarriesPeers(t *testing.T) {
	roster := fleet.NewRoster()
	for _, d := range []core.DroneState{
		{ID: "survey-1", OperatorID: "op-1"},
		{ID: "patrol-2", OperatorID: "op-2", Position: core.Position{North: 300}},
	} {
		if err := roster.Register(d); err != nil {
			t.Fatalf("Register(%s): %v", d.ID, err)
		}
	}

	base := core.Mission{ID: "survey-1", OperatorID: "op-1"}
	now := time.Unix(1755600000, 0).UTC()
	m := tickMission(base, roster, "survey-1", now)

	if !m.Time.Equal(now) {
		t.Errorf("tick time = %v, want %v", m.Time, now)
	}
	if len(m.Roster) != 1 || m.Roster[0].ID != "patrol-2" {
		t.Fatalf("tick roster = %+v, want the single peer patrol-2", m.Roster)
	}
	if m.Roster[0].OperatorID != "op-2" {
		t.Errorf("peer operator = %q, want op-2", m.Roster[0].OperatorID)
	}
	if len(base.Roster) != 0 {
		t.Errorf("base mission mutated: %+v", base.Roster)
	}
}

func TestFlightIdentityFromMission(t *testing.T) {
	m := core.Mission{
		ID:                  "survey-1",
		OperatorID:          "op-1",
		DroneType:           "agricultural",
		EnabledWaiverIDs:    []string{"observer-east"},
		SwarmWaiverApproved: true,
		Pilot: core.PilotQualifications{
			NightTraining:      true,
			AntiCollisionLight: true,
		},
	}

	airframe, operator := flightIdentity("survey-1", m)
	if airframe.OperatorID != "op-1" || airframe.Type != "agricultural" {
		t.Errorf("unexpected airframe: %+v", airframe)
	}

	state := airframe.State(core.Position{North: 10}, 7.5)
	if state.ID != "survey-1" || state.OperatorID != "op-1" || state.SpeedMS != 7.5 {
		t.Errorf("unexpected state: %+v", state)
	}

	quals := operator.Qualifications(airframe)
	if !quals.NightTraining || !quals.AntiCollisionLight {
		t.Errorf("qualifications lost in translation: %+v", quals)
	}
}

func TestLoadTrajectoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.json")
	doc := `{
		"drone_id": "drone-1",
		"trajectory": [
			{"timestamp": 1755600000, "position": {"north": 0, "east": 0, "down": -40}, "speed_ms": 8}
		]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write trajectory: %v", err)
	}

	traj, err := loadTrajectoryFile(path)
	if err != nil {
		t.Fatalf("loadTrajectoryFile: %v", err)
	}
	if traj.DroneID != "drone-1" || len(traj.Points) != 1 {
		t.Errorf("unexpected trajectory: %+v", traj)
	}

	if _, err := loadTrajectoryFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
