package core

import (
	"fmt"
	"time"
)

// Geofence evaluation. Containment is strict: distance < radius +
// margin is inside, distance exactly equal to the restricted radius is
// safe. Path checks use the closed-form point-segment distance rather
// than sampling, so a conflict lying strictly between two waypoints is
// never missed.

// CheckGeofence evaluates a single point against every geofence active
// at the given instant and aggregates to one per-dimension result: the
// deepest reject-action containment wins, otherwise the most serious
// warn-action containment, otherwise OK with the tightest margin as
// evidence.
func (e *Evaluator) CheckGeofence(snap ZoneSnapshot, p Position, now time.Time) DimensionResult {
	return e.checkGeofenceWith(snap, now, func(z GeofenceZone) float64 {
		return Distance3D(p, z.Center)
	})
}

// CheckPathGeofence evaluates the straight segment a→b against every
// active geofence using the minimum segment-to-center distance.
func (e *Evaluator) CheckPathGeofence(snap ZoneSnapshot, a, b Position, now time.Time) DimensionResult {
	return e.checkGeofenceWith(snap, now, func(z GeofenceZone) float64 {
		return PointSegmentDistance3D(z.Center, a, b)
	})
}

// checkGeofenceWith runs the shared containment/aggregation logic with
// a caller-supplied distance function (point or segment).
func (e *Evaluator) checkGeofenceWith(snap ZoneSnapshot, now time.Time, distanceTo func(GeofenceZone) float64) DimensionResult {
	active := ActiveGeofences(snap.Geofences, now)

	res := DimensionResult{
		Dimension: DimensionGeofence,
		Verdict:   VerdictOK,
	}
	if len(active) == 0 {
		res.Verdict = VerdictNotApplicable
		res.Reason = "no active geofences"
		return res
	}

	haveMargin := false
	for _, z := range active {
		dist := distanceTo(z)
		restricted := z.RestrictedRadius()
		contained := dist < restricted

		if !contained {
			// Track the tightest clearance for OK evidence.
			margin := dist - restricted
			if res.Verdict == VerdictOK && !res.Advisory && (!haveMargin || margin < res.Margin) {
				haveMargin = true
				res.ZoneID = z.ID
				res.Distance = dist
				res.Limit = restricted
				res.Margin = margin
			}
			continue
		}

		depth := restricted - dist
		switch z.Action {
		case ActionReject:
			if res.Verdict != VerdictViolation || depth > res.Depth {
				res.Verdict = VerdictViolation
				res.ZoneID = z.ID
				res.Distance = dist
				res.Limit = restricted
				res.Depth = depth
				res.Margin = 0
				res.Advisory = false
				res.StopAdvised = false
				res.Reason = fmt.Sprintf("inside geofence %q (%.1fm < %.1fm)", z.ID, dist, restricted)
			}
		case ActionWarn:
			if res.Verdict == VerdictViolation {
				continue
			}
			stop := z.ZoneType == "obstacle"
			// A stop-grade warning outranks a plain one.
			if res.Advisory && !stop && res.StopAdvised {
				continue
			}
			if !res.Advisory || (stop && !res.StopAdvised) || depth > res.Depth {
				res.Advisory = true
				res.StopAdvised = res.StopAdvised || stop
				res.ZoneID = z.ID
				res.Distance = dist
				res.Limit = restricted
				res.Depth = depth
				res.Margin = 0
				res.Reason = fmt.Sprintf("inside warn zone %q (%.1fm < %.1fm)", z.ID, dist, restricted)
			}
		case ActionAllow:
			// Never flags.
		}
	}

	if res.Verdict == VerdictOK && res.Reason == "" {
		res.Reason = "clear of all active geofences"
	}
	return res
}

// CheckObstacleProximity flags horizontal proximity to obstacle-typed
// geofences below the stop distance. It never produces a violation on
// its own; the stop advisory escalates the decision instead, matching
// the obstacle-avoidance behaviour of the in-flight monitor.
func (e *Evaluator) CheckObstacleProximity(snap ZoneSnapshot, p Position, now time.Time) DimensionResult {
	res := DimensionResult{
		Dimension: DimensionGeofence,
		Verdict:   VerdictNotApplicable,
		Reason:    "no obstacle zones",
	}

	for _, z := range ActiveGeofences(snap.Geofences, now) {
		if z.ZoneType != "obstacle" {
			continue
		}
		dist := Distance2D(p, z.Center)
		if res.Verdict == VerdictNotApplicable || dist < res.Distance {
			res.Verdict = VerdictOK
			res.ZoneID = z.ID
			res.Distance = dist
			res.Limit = e.ObstacleStopDistance
			res.Margin = dist - e.ObstacleStopDistance
			res.Reason = fmt.Sprintf("obstacle %q at %.1fm", z.ID, dist)
			res.StopAdvised = dist < e.ObstacleStopDistance
			res.Advisory = res.StopAdvised
		}
	}
	return res
}
