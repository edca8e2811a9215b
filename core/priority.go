package core

// Overlapping zones within one dimension are arbitrated here, not in
// the evaluators. The rule is uniform: priority ascending (lower
// number governs), with the most restrictive limit as tie break. The
// snapshot is already sorted by (priority, ID), so the resolvers walk
// it in order and only compare limits within the same priority.

// governingAltitudeZone returns the altitude zone that governs p, or
// nil when no zone (not even an infinite catch-all) contains it.
func governingAltitudeZone(zones []AltitudeZone, p Position) *AltitudeZone {
	var governing *AltitudeZone
	for i := range zones {
		z := &zones[i]
		if !z.Contains(p) {
			continue
		}
		if governing == nil {
			governing = z
			continue
		}
		if z.Priority == governing.Priority && z.LimitAGL < governing.LimitAGL {
			governing = z
		}
	}
	return governing
}

// governingStructureWaiver returns the applicable structure waiver for
// p, preferring the nearest structure when several cover the point.
// Structure waivers are resolved before, and override, the altitude
// zone result.
func governingStructureWaiver(waivers []StructureWaiver, p Position) *StructureWaiver {
	var governing *StructureWaiver
	var bestDist float64
	for i := range waivers {
		w := &waivers[i]
		if !w.Covers(p) {
			continue
		}
		d := Distance2D(p, w.Location)
		if governing == nil || d < bestDist {
			governing = w
			bestDist = d
		}
	}
	return governing
}

// governingSpeedZone returns the speed zone that governs p, or nil
// when no enabled zone contains it.
func governingSpeedZone(zones []SpeedZone, p Position) *SpeedZone {
	var governing *SpeedZone
	for i := range zones {
		z := &zones[i]
		if !z.Enabled || !z.Shape.Contains(p) {
			continue
		}
		if governing == nil {
			governing = z
			continue
		}
		if z.Priority == governing.Priority && z.LimitMS < governing.LimitMS {
			governing = z
		}
	}
	return governing
}

// governingSpeedZoneForSegment is the path variant: a zone governs if
// any point of the segment crosses it.
func governingSpeedZoneForSegment(zones []SpeedZone, a, b Position) *SpeedZone {
	var governing *SpeedZone
	for i := range zones {
		z := &zones[i]
		if !z.Enabled || !z.Shape.IntersectsSegment(a, b) {
			continue
		}
		if governing == nil {
			governing = z
			continue
		}
		if z.Priority == governing.Priority && z.LimitMS < governing.LimitMS {
			governing = z
		}
	}
	return governing
}

// bestBVLOSWaiver resolves the mission's enabled waivers
// best-available: among the waivers that actually cover the target it
// returns the one with the greatest effective range, so evidence names
// the strongest grounds for the flight. Returns nil when no enabled
// waiver covers the target.
func bestBVLOSWaiver(waivers []BVLOSWaiver, enabledIDs []string, operator, target Position) *BVLOSWaiver {
	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}

	var best *BVLOSWaiver
	for i := range waivers {
		w := &waivers[i]
		if !enabled[w.ID] {
			continue
		}
		if !waiverCoversTarget(*w, operator, target) {
			continue
		}
		if best == nil || w.MaxEffectiveRange > best.MaxEffectiveRange {
			best = w
		}
	}
	return best
}

// waiverCoversTarget applies the per-type coverage rule: a visual
// observer covers targets within the observer's own VLOS range, the
// other waiver types cover targets within their effective range of the
// operator. Coverage distances are horizontal.
func waiverCoversTarget(w BVLOSWaiver, operator, target Position) bool {
	switch w.Type {
	case WaiverVisualObserver:
		return Distance2D(target, w.ObserverPosition) <= w.ObserverVLOSRange
	case WaiverTechnicalMeans, WaiverSpecialPermit:
		return Distance2D(target, operator) <= w.MaxEffectiveRange
	default:
		return false
	}
}
