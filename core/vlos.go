package core

import "fmt"

// VLOS/BVLOS evaluation. Inside the VLOS envelope the dimension is OK
// outright; beyond it the mission's enabled BVLOS waivers are resolved
// best-available, and only if none covers the target does the
// dimension become a violation.

// CheckVLOS evaluates operator-to-target range against the VLOS
// envelope and any enabled BVLOS waivers.
func (e *Evaluator) CheckVLOS(snap ZoneSnapshot, target Position, enabledWaiverIDs []string) DimensionResult {
	res := DimensionResult{Dimension: DimensionVLOS}

	cfg := snap.VLOS
	if cfg == nil || !cfg.Enabled {
		res.Verdict = VerdictNotApplicable
		res.Reason = "no VLOS restriction configured"
		return res
	}
	if cfg.MaxRange <= 0 {
		// Malformed envelope; fail closed.
		res.Verdict = VerdictViolation
		res.Reason = "VLOS configured without a positive range"
		return res
	}

	dist := vlosDistance(target, cfg.OperatorPosition, cfg.CheckMethod)
	res.Distance = dist
	res.Limit = cfg.MaxRange

	if dist <= cfg.MaxRange {
		res.Verdict = VerdictOK
		res.Margin = cfg.MaxRange - dist
		res.Reason = fmt.Sprintf("within VLOS (%.1fm <= %.1fm)", dist, cfg.MaxRange)
		return res
	}

	// Beyond VLOS: fall through to BVLOS waivers.
	if w := bestBVLOSWaiver(snap.BVLOSWaivers, enabledWaiverIDs, cfg.OperatorPosition, target); w != nil {
		res.Verdict = VerdictOK
		res.WaiverID = w.ID
		res.Limit = w.MaxEffectiveRange
		res.Margin = w.MaxEffectiveRange - dist
		res.Reason = fmt.Sprintf("beyond VLOS (%.1fm > %.1fm) but covered by %s waiver %q",
			dist, cfg.MaxRange, w.Type, w.ID)
		return res
	}

	res.Verdict = VerdictViolation
	res.Depth = dist - cfg.MaxRange
	if len(enabledWaiverIDs) == 0 {
		res.Reason = fmt.Sprintf("beyond VLOS (%.1fm > %.1fm) with no BVLOS waiver", dist, cfg.MaxRange)
	} else {
		res.Reason = fmt.Sprintf("beyond VLOS (%.1fm > %.1fm); no enabled waiver covers the target", dist, cfg.MaxRange)
	}
	return res
}

// vlosDistance measures operator-to-target range with the configured
// method; unknown methods fall back to horizontal, the conventional
// VLOS measure.
func vlosDistance(target, operator Position, method VLOSCheckMethod) float64 {
	if method == VLOS3D {
		return Distance3D(target, operator)
	}
	return Distance2D(target, operator)
}
