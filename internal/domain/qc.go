package domain

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendFlag    Recommendation = "flag_for_review"
	RecommendExclude Recommendation = "exclude"
)

// DetectorResult is the typed output of a single detector run. Callers
// branch on the result only, never on detector internals.
type DetectorResult struct {
	DetectorName string         `json:"detector_name"`
	Triggered    bool           `json:"triggered"`
	Score        float64        `json:"score"`
	Flags        []string       `json:"flags,omitempty"`
	Evidence     map[string]any `json:"evidence,omitempty"`

	// Unavailable marks a detector that could not produce a verdict
	// (collaborator outage); it contributes nothing to the score.
	Unavailable bool `json:"unavailable,omitempty"`
}

// QCResult is the aggregate verdict attached to a link after a
// completion attempt. Created once, immutable thereafter.
type QCResult struct {
	Flags           []string         `json:"flags"`
	Score           float64          `json:"score"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	Recommendation  Recommendation   `json:"recommendation"`
	DetectorResults []DetectorResult `json:"detector_results"`
	ScoredAt        time.Time        `json:"scored_at"`
}
