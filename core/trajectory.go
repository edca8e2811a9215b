package core

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrEmptyTrajectory = errors.New("trajectory has no points")

// TrajectoryPoint is one recorded sample of a flight.
type TrajectoryPoint struct {
	// Timestamp is unix seconds (fractional) as recorded by the
	// flight logger.
	Timestamp float64  `json:"timestamp"`
	Position  Position `json:"position"`
	SpeedMS   float64  `json:"speed_ms,omitempty"`
}

// Trajectory is an ordered, read-only sequence of recorded samples.
type Trajectory struct {
	DroneID string            `json:"drone_id,omitempty"`
	Points  []TrajectoryPoint `json:"trajectory"`
}

// Time converts a point's recorded timestamp to a time.Time for TFR
// activation checks.
func (p TrajectoryPoint) Time() time.Time {
	sec, frac := math.Modf(p.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// ViolationRecord is the per-sample evidence of a geofence penetration
// during offline analysis.
type ViolationRecord struct {
	Timestamp        float64  `json:"timestamp"`
	Position         Position `json:"position"`
	ZoneID           string   `json:"zone_id"`
	DistanceToCenter float64  `json:"distance_to_center"`
	ViolationDepth   float64  `json:"violation_depth"`
}

// TrajectoryReport summarises one trajectory's compliance: every
// violation sample, the closest approach to any restricted boundary,
// and a severity class from the deepest penetration.
type TrajectoryReport struct {
	DroneID        string            `json:"drone_id,omitempty"`
	PointCount     int               `json:"point_count"`
	Violations     []ViolationRecord `json:"violations"`
	ViolationCount int               `json:"violation_count"`
	// MinClearance is the smallest distance-minus-restricted-radius
	// seen over all samples and zones; negative when the boundary was
	// crossed.
	MinClearance float64  `json:"min_clearance"`
	MaxDepth     float64  `json:"max_violation_depth"`
	Severity     Severity `json:"severity"`

	// Per-point results for the non-geofence dimensions are not
	// accumulated; speed violations are counted separately since they
	// are the other in-flight rule the recorded scenarios exercise.
	SpeedViolationCount int `json:"speed_violation_count"`
}

// AnalyzeTrajectory replays a recorded trajectory against the zone
// snapshot point by point. Violation state accumulates across points,
// so one trajectory is analyzed sequentially; independent trajectories
// can be analyzed in parallel.
func (e *Evaluator) AnalyzeTrajectory(snap ZoneSnapshot, traj Trajectory) (TrajectoryReport, error) {
	if len(traj.Points) == 0 {
		return TrajectoryReport{}, ErrEmptyTrajectory
	}

	report := TrajectoryReport{
		DroneID:      traj.DroneID,
		PointCount:   len(traj.Points),
		MinClearance: math.Inf(1),
	}

	for _, pt := range traj.Points {
		if !pt.Position.IsFinite() {
			return TrajectoryReport{}, fmt.Errorf("non-finite position at t=%.3f", pt.Timestamp)
		}

		for _, z := range ActiveGeofences(snap.Geofences, pt.Time()) {
			if z.Action == ActionAllow {
				continue
			}
			dist := Distance3D(pt.Position, z.Center)
			restricted := z.RestrictedRadius()
			clearance := dist - restricted
			if clearance < report.MinClearance {
				report.MinClearance = clearance
			}
			if dist >= restricted || z.Action != ActionReject {
				continue
			}
			depth := restricted - dist
			report.Violations = append(report.Violations, ViolationRecord{
				Timestamp:        pt.Timestamp,
				Position:         pt.Position,
				ZoneID:           z.ID,
				DistanceToCenter: dist,
				ViolationDepth:   depth,
			})
			if depth > report.MaxDepth {
				report.MaxDepth = depth
			}
		}

		if speed := e.CheckSpeed(snap, pt.Position, pt.SpeedMS); speed.Verdict == VerdictViolation {
			report.SpeedViolationCount++
		}
	}

	report.ViolationCount = len(report.Violations)
	report.Severity = e.Severity.Classify(report.MaxDepth)
	if math.IsInf(report.MinClearance, 1) {
		report.MinClearance = 0
	}
	return report, nil
}
