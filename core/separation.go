package core

import "fmt"

// Multi-drone separation. The check couples pairs of drones and runs
// once per tick over the roster snapshot: the mission drone against
// every peer, and every peer pair against each other. O(n²) in the
// roster, which stays small enough for the 10 Hz budget.

// CheckSeparation verifies pairwise separation and the per-operator
// fleet cap. A swarm above the approval threshold, or a single
// operator flying more drones than the cap, needs an approved swarm
// waiver.
func (e *Evaluator) CheckSeparation(self DroneState, roster []DroneState, swarmApproved bool) DimensionResult {
	res := DimensionResult{Dimension: DimensionSeparation}

	if len(roster) == 0 {
		res.Verdict = VerdictNotApplicable
		res.Reason = "no other drones active"
		return res
	}

	if e.MinSeparation <= 0 {
		res.Verdict = VerdictViolation
		res.Reason = "no positive minimum separation configured"
		return res
	}

	// Fleet-size rules first: they don't depend on geometry.
	fleet := len(roster) + 1 // peers plus the mission drone
	if e.SwarmApprovalThreshold > 0 && fleet >= e.SwarmApprovalThreshold && !swarmApproved {
		res.Verdict = VerdictViolation
		res.Value = float64(fleet)
		res.Limit = float64(e.SwarmApprovalThreshold)
		res.Reason = fmt.Sprintf("swarm of %d drones requires approval (threshold %d)", fleet, e.SwarmApprovalThreshold)
		return res
	}

	// The cap is per operator, not per airspace: drones owned by
	// distinct operators never count against each other. Unattributed
	// drones share one bucket.
	if e.MaxDronesPerOperator > 0 && !swarmApproved {
		perOperator := map[string]int{self.OperatorID: 1}
		for _, d := range roster {
			perOperator[d.OperatorID]++
		}
		for op, count := range perOperator {
			if count > e.MaxDronesPerOperator {
				if op == "" {
					op = "unattributed"
				}
				res.Verdict = VerdictViolation
				res.Value = float64(count)
				res.Limit = float64(e.MaxDronesPerOperator)
				res.Reason = fmt.Sprintf("operator %q flies %d drones, exceeding cap %d without swarm waiver",
					op, count, e.MaxDronesPerOperator)
				return res
			}
		}
	}

	// Pairwise geometry: self vs every peer, then peer vs peer.
	selfID := self.ID
	if selfID == "" {
		selfID = "self"
	}
	minDist := -1.0
	var closePair [2]string
	consider := func(idA, idB string, a, b Position) {
		d := Distance3D(a, b)
		if minDist < 0 || d < minDist {
			minDist = d
			closePair = [2]string{idA, idB}
		}
	}

	for i, d := range roster {
		consider(selfID, d.ID, self.Position, d.Position)
		for _, other := range roster[i+1:] {
			consider(d.ID, other.ID, d.Position, other.Position)
		}
	}

	res.Distance = minDist
	res.Limit = e.MinSeparation
	if minDist < e.MinSeparation {
		res.Verdict = VerdictViolation
		res.Depth = e.MinSeparation - minDist
		res.Reason = fmt.Sprintf("drones %q and %q separated by %.1fm < %.1fm",
			closePair[0], closePair[1], minDist, e.MinSeparation)
	} else {
		res.Verdict = VerdictOK
		res.Margin = minDist - e.MinSeparation
		res.Reason = fmt.Sprintf("minimum pairwise separation %.1fm (>= %.1fm)", minDist, e.MinSeparation)
	}
	return res
}
