package core

import "fmt"

// Speed evaluation. The governing limit is the zone selected by the
// priority resolver, falling back to the global limit; violation iff
// speed >= limit + tolerance. Limits are canonical m/s — km/h never
// crosses the loader boundary.

// CheckSpeed evaluates an instantaneous ground speed at a position.
func (e *Evaluator) CheckSpeed(snap ZoneSnapshot, p Position, speedMS float64) DimensionResult {
	zone := governingSpeedZone(snap.SpeedZones, p)
	return e.speedVerdict(zone, speedMS)
}

// CheckPathSpeed evaluates a planned speed against every speed zone
// the segment a→b crosses.
func (e *Evaluator) CheckPathSpeed(snap ZoneSnapshot, a, b Position, speedMS float64) DimensionResult {
	zone := governingSpeedZoneForSegment(snap.SpeedZones, a, b)
	return e.speedVerdict(zone, speedMS)
}

func (e *Evaluator) speedVerdict(zone *SpeedZone, speedMS float64) DimensionResult {
	res := DimensionResult{
		Dimension: DimensionSpeed,
		Value:     speedMS,
	}

	limit := e.GlobalSpeedLimitMS
	source := "global limit"
	if zone != nil {
		limit = zone.LimitMS
		source = fmt.Sprintf("speed zone %q", zone.ID)
		res.ZoneID = zone.ID
	}

	if limit <= 0 {
		if zone == nil {
			res.Verdict = VerdictNotApplicable
			res.Reason = "no speed limit applies"
			return res
		}
		// A governing zone with a non-positive limit is malformed
		// config; fail closed.
		res.Verdict = VerdictViolation
		res.Depth = speedMS
		res.Reason = fmt.Sprintf("speed zone %q has no positive limit", zone.ID)
		return res
	}

	effective := limit + e.SpeedToleranceMS
	res.Limit = limit
	if speedMS >= effective {
		res.Verdict = VerdictViolation
		res.Depth = speedMS - limit
		res.Reason = fmt.Sprintf("speed %.1fm/s >= limit %.1fm/s (%s, tolerance %.1f)", speedMS, limit, source, e.SpeedToleranceMS)
	} else {
		res.Verdict = VerdictOK
		res.Margin = effective - speedMS
		res.Reason = fmt.Sprintf("speed %.1fm/s within limit %.1fm/s (%s)", speedMS, limit, source)
	}
	return res
}
