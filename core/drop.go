package core

import "fmt"

// Drop and payload evaluation. The drop policy ladder, most protective
// first: crowd zones prohibit absolutely (no approval overrides),
// then explicit prohibitions, then the agricultural exemption, then
// approval-gated zones, then always-allowed zones; unclassified
// locations fall back to the global approval requirement.

// CheckPayload verifies payload mass against the configured maximum.
// Carrying exactly the maximum is compliant.
func (e *Evaluator) CheckPayload(payloadKg float64) DimensionResult {
	res := DimensionResult{
		Dimension: DimensionPayload,
		Value:     payloadKg,
		Limit:     e.MaxPayloadKg,
	}

	if e.MaxPayloadKg <= 0 {
		res.Verdict = VerdictViolation
		res.Reason = "no positive payload limit configured"
		return res
	}

	if payloadKg > e.MaxPayloadKg {
		res.Verdict = VerdictViolation
		res.Depth = payloadKg - e.MaxPayloadKg
		res.Reason = fmt.Sprintf("payload %.1fkg exceeds maximum %.1fkg", payloadKg, e.MaxPayloadKg)
	} else {
		res.Verdict = VerdictOK
		res.Margin = e.MaxPayloadKg - payloadKg
		res.Reason = fmt.Sprintf("payload %.1fkg within maximum %.1fkg", payloadKg, e.MaxPayloadKg)
	}
	return res
}

// CheckDrop decides whether releasing a payload at p is permitted
// under the zone policy and the mission's approval state.
func (e *Evaluator) CheckDrop(snap ZoneSnapshot, p Position, m Mission) DimensionResult {
	res := DimensionResult{Dimension: DimensionDrop}

	zone := dropZoneAt(snap.DropZones, p)
	if zone == nil {
		if e.DropRequiresApproval && !m.HasDropApproval {
			res.Verdict = VerdictViolation
			res.Reason = "drop outside classified zones requires prior approval"
			return res
		}
		res.Verdict = VerdictOK
		res.Reason = "drop permitted (no restricted zone at location)"
		return res
	}

	res.ZoneID = zone.ID
	res.Distance = Distance2D(p, zone.Center)
	res.Limit = zone.Radius

	// Crowd protection is absolute; approval never overrides it.
	if zone.ZoneType == "crowd" {
		res.Verdict = VerdictViolation
		res.Reason = fmt.Sprintf("drop over crowd zone %q prohibited regardless of approval", zone.ID)
		return res
	}

	if zone.DropProhibited {
		res.Verdict = VerdictViolation
		res.Reason = fmt.Sprintf("drop prohibited in %s zone %q", zone.ZoneType, zone.ID)
		return res
	}

	if m.DroneType == "agricultural" && zone.ZoneType == "agricultural" &&
		zone.DropAllowed && e.AgriculturalExemption {
		res.Verdict = VerdictOK
		res.Reason = fmt.Sprintf("agricultural exemption in zone %q, no approval needed", zone.ID)
		return res
	}

	if zone.DropAllowedWithApproval {
		if !m.HasDropApproval {
			res.Verdict = VerdictViolation
			res.Reason = fmt.Sprintf("drop in %s zone %q requires approval", zone.ZoneType, zone.ID)
			return res
		}
		res.Verdict = VerdictOK
		res.Reason = fmt.Sprintf("approved drop in %s zone %q", zone.ZoneType, zone.ID)
		return res
	}

	if zone.DropAllowed {
		res.Verdict = VerdictOK
		res.Reason = fmt.Sprintf("drop allowed in %s zone %q", zone.ZoneType, zone.ID)
		return res
	}

	// Unflagged zone: fall back to the approval requirement.
	if !m.HasDropApproval {
		res.Verdict = VerdictViolation
		res.Reason = fmt.Sprintf("drop in zone %q requires prior approval", zone.ID)
		return res
	}
	res.Verdict = VerdictOK
	res.Reason = fmt.Sprintf("approved drop in zone %q", zone.ID)
	return res
}

// dropZoneAt returns the drop zone containing p. Crowd zones win over
// any overlapping zone type; among equals the closest center governs.
func dropZoneAt(zones []DropZone, p Position) *DropZone {
	var found *DropZone
	var bestDist float64
	for i := range zones {
		z := &zones[i]
		if !z.Contains(p) {
			continue
		}
		d := Distance2D(p, z.Center)
		switch {
		case found == nil:
			found, bestDist = z, d
		case z.ZoneType == "crowd" && found.ZoneType != "crowd":
			found, bestDist = z, d
		case z.ZoneType != "crowd" && found.ZoneType == "crowd":
			// keep the crowd zone
		case d < bestDist:
			found, bestDist = z, d
		}
	}
	return found
}
