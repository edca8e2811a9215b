// Command monitor replays a recorded trajectory against a scenario's
// constraints, re-evaluating the flight at a fixed cadence. It serves
// Prometheus metrics on /metrics and pushes per-tick results to
// websocket subscribers on /stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/fleet"
	"github.com/skyfoundry/airspace-sentinel/internal/config"
	"github.com/skyfoundry/airspace-sentinel/internal/logging"
	"github.com/skyfoundry/airspace-sentinel/internal/observability"
	"github.com/skyfoundry/airspace-sentinel/internal/stream"
	"github.com/skyfoundry/airspace-sentinel/model"
	"github.com/skyfoundry/airspace-sentinel/timectrl"
)

func main() {
	configPath := flag.String("config", "", "optional YAML runtime configuration")
	scenarioPath := flag.String("scenario", "", "path to a scenario JSON file")
	trajectoryPath := flag.String("trajectory", "", "path to a recorded trajectory JSON file")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *scenarioPath == "" || *trajectoryPath == "" {
		fmt.Fprintln(os.Stderr, "usage: monitor -scenario <file> -trajectory <file> [-config <file>]")
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

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "init tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewAirspaceCollector(nil)
	if err != nil {
		log.Error(ctx, "init metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	reg := core.NewZoneRegistry()
	ev := core.NewEvaluator()
	summary, err := loadScenarioFile(reg, ev, *scenarioPath)
	if err != nil {
		log.Error(ctx, "load scenario", logging.String("error", err.Error()))
		os.Exit(2)
	}
	cfg.ApplyTo(ev)

	zoneTotal := 0
	for _, n := range summary.ZoneCounts {
		zoneTotal += n
	}
	collector.SetZoneCount(zoneTotal)
	log.Info(ctx, "scenario loaded",
		logging.String("scenario", summary.ScenarioID),
		logging.Int("zones", zoneTotal))

	traj, err := loadTrajectoryFile(*trajectoryPath)
	if err != nil {
		log.Error(ctx, "load trajectory", logging.String("error", err.Error()))
		os.Exit(2)
	}
	log.Info(ctx, "trajectory loaded",
		logging.String("drone", traj.DroneID),
		logging.Int("samples", len(traj.Points)))

	roster := fleet.NewRoster()
	roster.Subscribe(func(fleet.Event) {
		collector.SetFleetCounts(len(roster.Snapshot()), len(roster.CountByOperator()))
	})

	hub := stream.NewHub(log, collector.SetStreamClients)
	srv := serveHTTP(cfg.Monitor.ListenAddr, collector, hub, log)

	first := traj.Points[0]
	droneID := traj.DroneID
	if droneID == "" {
		droneID = "replay"
	}

	mission := core.Mission{ID: droneID}
	if len(summary.Missions) > 0 {
		mission = summary.Missions[0]
	}

	airframe, operator := flightIdentity(droneID, mission)
	mission.Pilot = operator.Qualifications(airframe)

	if err := roster.Register(airframe.State(first.Position, first.SpeedMS)); err != nil {
		log.Error(ctx, "register drone", logging.String("error", err.Error()))
		os.Exit(1)
	}

	snap := reg.Snapshot()
	limiter := rate.NewLimiter(rate.Limit(cfg.Monitor.TickHz), 1)
	tracer := otel.Tracer("airspace-sentinel/monitor")

	// Mission time advanced per real-time tick. At speedup 1 the clock
	// tracks the recording; higher speedups replay proportionally faster.
	missionTick := time.Duration(float64(time.Second) * cfg.Monitor.ReplaySpeedup / cfg.Monitor.TickHz)
	tc := timectrl.NewTimeController(first.Time(), missionTick, timectrl.Accelerated)

	end := traj.Points[len(traj.Points)-1].Time()
	cursor := 0

	tc.AddListener(func(simTime time.Time) {
		if err := limiter.Wait(ctx); err != nil {
			tc.Stop()
			return
		}

		cursor = cursorAt(traj.Points, cursor, simTime)
		pt := traj.Points[cursor]
		if err := roster.UpdatePosition(droneID, pt.Position, pt.SpeedMS); err != nil {
			log.Warn(ctx, "roster update", logging.String("error", err.Error()))
		}

		m := tickMission(mission, roster, droneID, simTime)
		state := airframe.State(pt.Position, pt.SpeedMS)

		tickCtx, span := tracer.Start(ctx, "monitor.tick")
		started := time.Now()
		res := ev.MonitorTick(snap, state, m)
		collector.RecordEvaluation("monitor", string(res.Decision), time.Since(started))
		span.End()

		for _, v := range res.Violations {
			collector.RecordViolation(string(v.Dimension))
		}
		hub.Broadcast(stream.Update{DroneID: droneID, Time: simTime, Result: res})

		if res.Decision != core.DecisionApprove {
			log.Warn(tickCtx, "constraint flag",
				logging.String("drone", droneID),
				logging.String("decision", string(res.Decision)),
				logging.Int("violations", len(res.Violations)),
				logging.Float64("north", pt.Position.North),
				logging.Float64("east", pt.Position.East),
				logging.Float64("alt", pt.Position.Altitude()))
		}

		if !simTime.Before(end) {
			tc.Stop()
		}
	})

	log.Info(ctx, "replay starting",
		logging.String("addr", cfg.Monitor.ListenAddr),
		logging.Float64("tick_hz", cfg.Monitor.TickHz),
		logging.Float64("speedup", cfg.Monitor.ReplaySpeedup))
	done := tc.Start(0)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	select {
	case <-stopCtx.Done():
		log.Info(ctx, "interrupt received")
		tc.Stop()
		<-done
	case <-done:
		log.Info(ctx, "replay complete")
	}

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if srv != nil {
		_ = srv.Shutdown(shutdownCtx)
	}
}

// flightIdentity derives the registered airframe and its operator from
// the scenario mission, so the roster and the night-flight rules see
// the attribution the scenario declared.
func flightIdentity(droneID string, m core.Mission) (model.DroneDefinition, model.OperatorProfile) {
	airframe := model.DroneDefinition{
		ID:                 droneID,
		Type:               m.DroneType,
		OperatorID:         m.OperatorID,
		AntiCollisionLight: m.Pilot.AntiCollisionLight,
	}
	operator := model.OperatorProfile{
		ID:            m.OperatorID,
		NightTrained:  m.Pilot.NightTraining,
		HeldWaiverIDs: m.EnabledWaiverIDs,
		SwarmApproved: m.SwarmWaiverApproved,
	}
	return airframe, operator
}

// tickMission builds the evaluation input for one replay tick: mission
// time advances to the simulated clock and the roster reflects the
// drone's current peers.
func tickMission(base core.Mission, roster *fleet.Roster, droneID string, now time.Time) core.Mission {
	m := base
	m.Time = now
	m.Roster = roster.Peers(droneID)
	return m
}

// cursorAt advances the replay cursor to the last sample at or before
// the mission time. The cursor never moves backwards.
func cursorAt(points []core.TrajectoryPoint, from int, now time.Time) int {
	for from+1 < len(points) && !points[from+1].Time().After(now) {
		from++
	}
	return from
}

func loadScenarioFile(reg *core.ZoneRegistry, ev *core.Evaluator, path string) (*core.ScenarioSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadScenario(reg, ev, f)
}

func loadTrajectoryFile(path string) (core.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Trajectory{}, err
	}
	defer f.Close()
	return core.LoadTrajectory(f)
}

func serveHTTP(addr string, collector *observability.AirspaceCollector, hub *stream.Hub, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/stream", hub.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "http server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving metrics and result stream", logging.String("addr", addr))
	return srv
}
