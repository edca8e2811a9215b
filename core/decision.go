package core

// Decision synthesis. Precedence, highest wins:
//
//	REJECT > APPROVE_WITH_STOP > APPROVE_WITH_WARNING > APPROVE
//
// Any VIOLATION verdict rejects; a stop advisory (warn zone typed
// "obstacle", or obstacle proximity below the stop distance) escalates
// to APPROVE_WITH_STOP; any other advisory becomes a warning. The
// synthesizer never fails — whatever the evaluators produced, a
// decision comes out.

// Synthesize reduces per-dimension results to one decision plus the
// violation/warning evidence lists and a severity classification from
// the deepest violation depth.
func (e *Evaluator) Synthesize(dims []DimensionResult) EvaluationResult {
	result := EvaluationResult{
		Decision:   DecisionApprove,
		Dimensions: dims,
	}

	maxDepth := 0.0
	for _, d := range dims {
		switch {
		case d.Verdict == VerdictViolation:
			result.Violations = append(result.Violations, d)
			if decisionRank(DecisionReject) > decisionRank(result.Decision) {
				result.Decision = DecisionReject
			}
			if d.Depth > maxDepth {
				maxDepth = d.Depth
			}
		case d.StopAdvised:
			result.Warnings = append(result.Warnings, d)
			if decisionRank(DecisionApproveWithStop) > decisionRank(result.Decision) {
				result.Decision = DecisionApproveWithStop
			}
		case d.Advisory:
			result.Warnings = append(result.Warnings, d)
			if decisionRank(DecisionApproveWarning) > decisionRank(result.Decision) {
				result.Decision = DecisionApproveWarning
			}
		}
	}

	result.Severity = e.Severity.Classify(maxDepth)
	return result
}
