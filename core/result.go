package core

// Verdict is the per-dimension outcome of one evaluation routine.
type Verdict string

const (
	VerdictOK            Verdict = "OK"
	VerdictViolation     Verdict = "VIOLATION"
	VerdictNotApplicable Verdict = "NOT_APPLICABLE"
)

// Decision is the final synthesized outcome of an evaluation.
type Decision string

const (
	DecisionReject          Decision = "REJECT"
	DecisionApproveWithStop Decision = "APPROVE_WITH_STOP"
	DecisionApproveWarning  Decision = "APPROVE_WITH_WARNING"
	DecisionApprove         Decision = "APPROVE"
)

// decisionRank orders decisions by precedence; higher wins.
func decisionRank(d Decision) int {
	switch d {
	case DecisionReject:
		return 3
	case DecisionApproveWithStop:
		return 2
	case DecisionApproveWarning:
		return 1
	default:
		return 0
	}
}

// Severity classifies how deep into a restricted zone a violation
// penetrated.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DimensionResult is the evidence record one evaluation routine
// produces. Numeric fields are zero when they don't apply to the
// dimension; report writers and dashboards reconstruct "why" from
// these, so every populated field must be meaningful.
type DimensionResult struct {
	Dimension ConstraintDimension `json:"dimension"`
	Verdict   Verdict             `json:"verdict"`
	Reason    string              `json:"reason,omitempty"`

	ZoneID   string `json:"zone_id,omitempty"`
	WaiverID string `json:"waiver_id,omitempty"`

	Distance float64 `json:"distance,omitempty"`
	Limit    float64 `json:"limit,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Margin   float64 `json:"margin,omitempty"`

	// Depth is how far past the allowed boundary a violation reached,
	// in metres; zero for compliant dimensions. Severity derives from
	// the deepest Depth observed.
	Depth float64 `json:"violation_depth,omitempty"`

	// Advisory marks a warn-action containment that does not harden
	// into a violation; StopAdvised additionally marks obstacle
	// proximity that should halt the vehicle.
	Advisory    bool `json:"advisory,omitempty"`
	StopAdvised bool `json:"stop_advised,omitempty"`
}

// EvaluationResult is the full output of one engine call.
type EvaluationResult struct {
	Decision   Decision          `json:"decision"`
	Severity   Severity          `json:"severity"`
	Dimensions []DimensionResult `json:"dimensions"`
	Violations []DimensionResult `json:"violations,omitempty"`
	Warnings   []DimensionResult `json:"warnings,omitempty"`
}

// Approved reports whether the flight may proceed (possibly with a
// warning). APPROVE_WITH_STOP is not approval to continue moving.
func (r EvaluationResult) Approved() bool {
	return r.Decision == DecisionApprove || r.Decision == DecisionApproveWarning
}

// SeverityThresholds maps a violation depth (metres past the allowed
// boundary) onto a coarse severity class. Depths below Low are "low",
// below High are "medium", and anything deeper is "high".
type SeverityThresholds struct {
	Low  float64 `json:"low_below_m" yaml:"low_below_m"`
	High float64 `json:"high_at_m" yaml:"high_at_m"`
}

// DefaultSeverityThresholds mirrors the reporting conventions of the
// recorded trajectory analyses.
func DefaultSeverityThresholds() SeverityThresholds {
	return SeverityThresholds{Low: 100, High: 300}
}

// Classify maps a maximum observed violation depth to a severity.
func (s SeverityThresholds) Classify(maxDepth float64) Severity {
	switch {
	case maxDepth <= 0:
		return SeverityNone
	case maxDepth < s.Low:
		return SeverityLow
	case maxDepth < s.High:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
