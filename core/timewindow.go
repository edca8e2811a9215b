package core

import "fmt"

// Time-window evaluation: a zone restricts flight only while the
// current clock time falls inside its daily window AND the position is
// inside its shape. Night-flight requirements piggyback on this
// dimension because they are also a daily-window rule.

// CheckTimeWindow evaluates time-window zones and night-flight
// requirements for a position at the mission time. Malformed window
// strings fail closed: the zone is treated as restricting.
func (e *Evaluator) CheckTimeWindow(snap ZoneSnapshot, p Position, m Mission) DimensionResult {
	res := DimensionResult{
		Dimension: DimensionTimeWindow,
		Verdict:   VerdictOK,
		Reason:    "no time-window restriction applies",
	}

	clock := m.Time.Format("15:04")

	for _, z := range snap.TimeWindows {
		if !z.Enabled || !z.Shape.Contains(p) {
			continue
		}
		inWindow, err := IsWithinWindow(clock, z.WindowStart, z.WindowEnd)
		if err != nil {
			// Unparsable window: assume the restriction applies.
			inWindow = true
		}
		if !inWindow {
			continue
		}
		res.Verdict = VerdictViolation
		res.ZoneID = z.ID
		res.Reason = fmt.Sprintf("inside zone %q during restricted window %s-%s (%s)",
			z.ID, z.WindowStart, z.WindowEnd, z.RestrictionType)
		return res
	}

	// Night-flight requirements.
	night, err := e.Night.IsNight(m.Time)
	if err != nil {
		res.Verdict = VerdictViolation
		res.Reason = "malformed night period configuration"
		return res
	}
	if night {
		if e.Night.LightingRequired && !m.Pilot.AntiCollisionLight {
			res.Verdict = VerdictViolation
			res.Reason = fmt.Sprintf("night flight (%s-%s) without anti-collision lighting", e.Night.Start, e.Night.End)
			return res
		}
		if e.Night.TrainingRequired && !m.Pilot.NightTraining {
			res.Verdict = VerdictViolation
			res.Reason = fmt.Sprintf("night flight (%s-%s) without pilot night training", e.Night.Start, e.Night.End)
			return res
		}
		res.Reason = "night flight with required lighting and training"
	}

	return res
}
