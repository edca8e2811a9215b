package core

import "fmt"

// Altitude evaluation. The governing limit comes from, in order of
// precedence: a structure waiver covering the point, the governing
// altitude zone, then the global limit. Violation iff altitude >=
// limit; flying exactly at the limit is a violation.

// CheckAltitude evaluates the point's altitude against its effective
// limit. A non-positive global limit with no governing zone is a
// config failure and degrades to VIOLATION rather than allowing
// unlimited altitude.
func (e *Evaluator) CheckAltitude(snap ZoneSnapshot, p Position) DimensionResult {
	alt := p.Altitude()

	res := DimensionResult{
		Dimension: DimensionAltitude,
		Value:     alt,
	}

	limit := e.GlobalAltitudeLimit
	source := "global limit"

	if zone := governingAltitudeZone(snap.Altitudes, p); zone != nil {
		limit = zone.LimitAGL
		source = fmt.Sprintf("altitude zone %q", zone.ID)
		res.ZoneID = zone.ID
	}

	// Structure waivers override the zone/global result.
	if w := governingStructureWaiver(snap.Structures, p); w != nil {
		limit = w.TotalWaiverAltitude()
		source = fmt.Sprintf("structure waiver %q", w.ID)
		res.WaiverID = w.ID
		res.ZoneID = ""
	}

	if limit <= 0 {
		res.Verdict = VerdictViolation
		res.Reason = fmt.Sprintf("no positive altitude limit configured (%s)", source)
		res.Depth = alt
		return res
	}

	res.Limit = limit
	if alt >= limit {
		res.Verdict = VerdictViolation
		res.Depth = alt - limit
		res.Reason = fmt.Sprintf("altitude %.1fm >= limit %.1fm (%s)", alt, limit, source)
	} else {
		res.Verdict = VerdictOK
		res.Margin = limit - alt
		res.Reason = fmt.Sprintf("altitude %.1fm < limit %.1fm (%s)", alt, limit, source)
	}
	return res
}
