// Command analyze replays recorded trajectory files against a
// scenario's constraints and emits one archival JSON report per file.
// Files are analyzed concurrently.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/internal/config"
	"github.com/skyfoundry/airspace-sentinel/internal/logging"
	"github.com/skyfoundry/airspace-sentinel/internal/observability"
	"github.com/skyfoundry/airspace-sentinel/model"
)

func main() {
	configPath := flag.String("config", "", "optional YAML runtime configuration")
	scenarioPath := flag.String("scenario", "", "path to a scenario JSON file")
	outDir := flag.String("out", "", "directory for report files (default: stdout)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	files := flag.Args()
	if *scenarioPath == "" || len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze -scenario <file> [-out <dir>] <trajectory>...")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error(ctx, "load config", logging.String("error", err.Error()))
			os.Exit(2)
		}
	}
	if *outDir == "" {
		*outDir = cfg.Analyzer.OutputDir
	}

	collector, err := observability.NewAnalyzerCollector(nil)
	if err != nil {
		log.Error(ctx, "init metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	reg := core.NewZoneRegistry()
	ev := core.NewEvaluator()
	if err := loadScenarioFile(reg, ev, *scenarioPath); err != nil {
		log.Error(ctx, "load scenario", logging.String("error", err.Error()))
		os.Exit(2)
	}
	cfg.ApplyTo(ev)

	reports, err := analyzeAll(ctx, log, collector, ev, reg.Snapshot(), files, cfg.Analyzer.Workers)
	if err != nil {
		log.Error(ctx, "analysis failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	violations := 0
	for _, rep := range reports {
		violations += rep.ViolationCount
		if err := emitReport(*outDir, rep); err != nil {
			log.Error(ctx, "write report", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	log.Info(ctx, "analysis complete",
		logging.Int("trajectories", len(reports)),
		logging.Int("violations", violations))
	if violations > 0 {
		os.Exit(1)
	}
}

// analyzeAll fans the trajectory files out across the worker pool and
// returns reports in input order.
func analyzeAll(ctx context.Context, log logging.Logger, collector *observability.AnalyzerCollector, ev *core.Evaluator, snap core.ZoneSnapshot, files []string, workers int) ([]model.AnalysisReport, error) {
	collector.SetQueuedFiles(len(files))

	var mu sync.Mutex
	remaining := len(files)
	reports := make([]model.AnalysisReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			started := time.Now()
			rep, err := analyzeFile(ev, snap, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			collector.ObserveAnalysis(time.Since(started), rep.ViolationCount)

			log.Info(gctx, "trajectory analyzed",
				logging.String("file", path),
				logging.String("drone", rep.DroneID),
				logging.Int("violations", rep.ViolationCount),
				logging.String("severity", string(rep.Severity)))

			mu.Lock()
			reports[i] = rep
			remaining--
			collector.SetQueuedFiles(remaining)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// analyzeFile loads one trajectory document and runs it through the
// engine.
func analyzeFile(ev *core.Evaluator, snap core.ZoneSnapshot, path string) (model.AnalysisReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.AnalysisReport{}, err
	}
	defer f.Close()

	traj, err := core.LoadTrajectory(f)
	if err != nil {
		return model.AnalysisReport{}, err
	}

	rep, err := ev.AnalyzeTrajectory(snap, traj)
	if err != nil {
		return model.AnalysisReport{}, err
	}
	return model.NewAnalysisReport(filepath.Base(path), rep), nil
}

// emitReport writes the report to outDir, or to stdout when none is set.
func emitReport(outDir string, rep model.AnalysisReport) error {
	if outDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := strings.TrimSuffix(rep.SourceFile, filepath.Ext(rep.SourceFile))
	if name == "" {
		name = rep.ReportID
	}
	path := filepath.Join(outDir, name+".report.json")

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func loadScenarioFile(reg *core.ZoneRegistry, ev *core.Evaluator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = core.LoadScenario(reg, ev, f)
	return err
}
