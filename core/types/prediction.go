// Package types - Prediction types
package types

import "time"

// RiskTier buckets a churn probability for presentation and routing.
// The tier is independent of, and in addition to, the threshold-based
// binary decision.
type RiskTier string

const (
	TierLow    RiskTier = "LOW"
	TierMedium RiskTier = "MEDIUM"
	TierHigh   RiskTier = "HIGH"
)

// Tier boundaries. Fixed by the product definition, not by the trained
// threshold.
const (
	tierMediumFloor = 0.4
	tierHighFloor   = 0.7
)

// TierFor returns the risk tier for a churn probability.
func TierFor(probability float64) RiskTier {
	switch {
	case probability >= tierHighFloor:
		return TierHigh
	case probability >= tierMediumFloor:
		return TierMedium
	default:
		return TierLow
	}
}

// Prediction is the scoring result for one customer record.
type Prediction struct {
	// CustomerID echoes the caller-supplied identifier, if any.
	CustomerID string `json:"customer_id,omitempty"`

	// Probability is the classifier's churn probability in [0,1].
	Probability float64 `json:"probability"`

	// Decision is Probability >= the trained threshold.
	Decision bool `json:"decision"`

	// Threshold is the trained decision threshold that was applied.
	Threshold float64 `json:"threshold"`

	// RiskTier is the presentation tier (LOW/MEDIUM/HIGH).
	RiskTier RiskTier `json:"risk_tier"`

	// SchemaVersion identifies the feature schema the vector was built
	// against.
	SchemaVersion string `json:"schema_version"`

	// ScoredAt is when the prediction was produced.
	ScoredAt time.Time `json:"scored_at"`
}
