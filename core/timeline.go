package core

import "fmt"

// Approval-timeline evaluation. A normal flight in controlled airspace
// must have been applied for at least RequiredAdvanceHours before the
// planned flight time (boundary inclusive: exactly the required lead
// time satisfies the rule). Two exemptions bypass the check entirely:
// emergency missions, and flight wholly in uncontrolled airspace
// (below the ceiling and outside every controlled zone).

// CheckTimeline evaluates advance-application requirements for the
// mission's target.
func (e *Evaluator) CheckTimeline(snap ZoneSnapshot, m Mission) DimensionResult {
	res := DimensionResult{Dimension: DimensionTimeline}

	inControlled, zone := controlledZoneAt(snap.Controlled, m.Target)
	if zone != nil {
		res.ZoneID = zone.ID
	}

	// Uncontrolled-airspace exemption.
	if !inControlled && m.Target.Altitude() < e.UncontrolledCeiling {
		res.Verdict = VerdictOK
		res.Reason = fmt.Sprintf("uncontrolled airspace (altitude %.0fm < %.0fm, outside controlled zones), no application needed",
			m.Target.Altitude(), e.UncontrolledCeiling)
		return res
	}

	// Emergency exemption.
	if m.Emergency {
		res.Verdict = VerdictOK
		res.Reason = "emergency mission exempt from advance-notice requirement"
		return res
	}

	if e.RequiredAdvanceHours <= 0 {
		res.Verdict = VerdictViolation
		res.Reason = "no positive advance-notice requirement configured"
		return res
	}

	if m.ApplicationTime.IsZero() || m.PlannedFlightTime.IsZero() {
		res.Verdict = VerdictViolation
		res.Limit = e.RequiredAdvanceHours
		res.Reason = "flight in controlled airspace without a filed application"
		return res
	}

	hours := m.PlannedFlightTime.Sub(m.ApplicationTime).Hours()
	res.Value = hours
	res.Limit = e.RequiredAdvanceHours

	if hours >= e.RequiredAdvanceHours {
		res.Verdict = VerdictOK
		res.Margin = hours - e.RequiredAdvanceHours
		res.Reason = fmt.Sprintf("application filed %.1fh in advance (>= %.1fh required)", hours, e.RequiredAdvanceHours)
	} else {
		res.Verdict = VerdictViolation
		res.Depth = e.RequiredAdvanceHours - hours
		res.Reason = fmt.Sprintf("application filed %.1fh in advance (< %.1fh required)", hours, e.RequiredAdvanceHours)
	}
	return res
}

// controlledZoneAt returns whether p lies in controlled airspace and
// which zone, if any, contains it.
func controlledZoneAt(zones []ControlledZone, p Position) (bool, *ControlledZone) {
	for i := range zones {
		if zones[i].Contains(p) {
			return true, &zones[i]
		}
	}
	return false, nil
}
