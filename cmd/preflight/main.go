// Command preflight evaluates the missions of a scenario file and
// prints one JSON report per mission. The exit status is 0 only when
// every mission may launch as filed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/internal/logging"
)

type missionReport struct {
	MissionID string                `json:"mission_id"`
	Result    core.EvaluationResult `json:"result"`
}

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario JSON file (// comments allowed)")
	caseID := flag.String("case", "", "evaluate only the named mission (default: all)")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: preflight -scenario <file> [-case <id>] [-pretty]")
		os.Exit(2)
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "open scenario", logging.String("path", *scenarioPath), logging.String("error", err.Error()))
		os.Exit(2)
	}
	defer f.Close()

	reports, err := runPreflight(ctx, log, f, *caseID)
	if err != nil {
		log.Error(ctx, "preflight failed", logging.String("error", err.Error()))
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(reports); err != nil {
		log.Error(ctx, "encode reports", logging.String("error", err.Error()))
		os.Exit(2)
	}

	os.Exit(exitCode(reports))
}

// runPreflight loads the scenario and evaluates the selected missions.
func runPreflight(ctx context.Context, log logging.Logger, r io.Reader, caseID string) ([]missionReport, error) {
	reg := core.NewZoneRegistry()
	ev := core.NewEvaluator()

	summary, err := core.LoadScenario(reg, ev, r)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("scenario", summary.ScenarioID),
		logging.Any("zones", summary.ZoneCounts),
		logging.Int("missions", len(summary.Missions)))

	snap := reg.Snapshot()

	var reports []missionReport
	for _, m := range summary.Missions {
		if caseID != "" && m.ID != caseID {
			continue
		}

		evalCtx, evalLog := logging.WithEvaluationLogger(ctx, log)
		res := ev.PreflightCheck(snap, m)
		evalLog.Info(evalCtx, "mission evaluated",
			logging.String("mission", m.ID),
			logging.String("decision", string(res.Decision)),
			logging.Int("violations", len(res.Violations)),
			logging.Int("warnings", len(res.Warnings)))

		reports = append(reports, missionReport{MissionID: m.ID, Result: res})
	}

	if caseID != "" && len(reports) == 0 {
		return nil, fmt.Errorf("mission %q not found in scenario %q", caseID, summary.ScenarioID)
	}
	return reports, nil
}

// exitCode maps the evaluated decisions to a process exit status:
// 0 when every mission may launch as filed, 1 when any mission needs
// operator attention (stop advice or rejection).
func exitCode(reports []missionReport) int {
	for _, r := range reports {
		switch r.Result.Decision {
		case core.DecisionApprove, core.DecisionApproveWarning:
		default:
			return 1
		}
	}
	return 0
}
