package main

import (
	"context"
	"strings"
	"testing"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/internal/logging"
)

const testScenario = `{
	"id": "CLI-1",
	"geofences": [
		{"id": "nfz-1", "center": {"xyz": "0 0 -50"}, "radius": 500, "safety_margin": 500, "action": "reject"}
	],
	"test_cases": [
		{
			"id": "blocked",
			"start": {"xyz": "700 0 -50"},
			"target": {"xyz": "0 0 -50"},
			"simulated_time": "2026-08-20T12:00:00Z",
			"speed_ms": 10,
			"flight_type": "emergency"
		},
		{
			"id": "clear",
			"start": {"xyz": "5000 0 -50"},
			"target": {"xyz": "6000 0 -50"},
			"simulated_time": "2026-08-20T12:00:00Z",
			"speed_ms": 10,
			"flight_type": "emergency"
		}
	]
}`

func TestRunPreflightAllCases(t *testing.T) {
	reports, err := runPreflight(context.Background(), logging.Noop(), strings.NewReader(testScenario), "")
	if err != nil {
		t.Fatalf("runPreflight: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if reports[0].Result.Decision != core.DecisionReject {
		t.Errorf("blocked mission: decision = %v, want REJECT", reports[0].Result.Decision)
	}
	if reports[1].Result.Decision != core.DecisionApprove {
		t.Errorf("clear mission: decision = %v, want APPROVE", reports[1].Result.Decision)
	}
}

func TestRunPreflightSingleCase(t *testing.T) {
	reports, err := runPreflight(context.Background(), logging.Noop(), strings.NewReader(testScenario), "clear")
	if err != nil {
		t.Fatalf("runPreflight: %v", err)
	}
	if len(reports) != 1 || reports[0].MissionID != "clear" {
		t.Fatalf("reports = %+v, want only the clear mission", reports)
	}

	if _, err := runPreflight(context.Background(), logging.Noop(), strings.NewReader(testScenario), "absent"); err == nil {
		t.Errorf("expected error for unknown mission ID")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		decision core.Decision
		want     int
	}{
		{core.DecisionApprove, 0},
		{core.DecisionApproveWarning, 0},
		{core.DecisionApproveWithStop, 1},
		{core.DecisionReject, 1},
	}
	for _, tc := range cases {
		reports := []missionReport{{Result: core.EvaluationResult{Decision: tc.decision}}}
		if got := exitCode(reports); got != tc.want {
			t.Errorf("%v: exit code = %d, want %d", tc.decision, got, tc.want)
		}
	}
	if exitCode(nil) != 0 {
		t.Errorf("no reports should exit 0")
	}
}
