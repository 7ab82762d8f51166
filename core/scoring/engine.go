// Package scoring orchestrates the pipeline: transform the record, score
// the vector, apply the trained threshold, bucket the tier. The engine
// holds only the shared read-only artifacts; each request is independent.
package scoring

import (
	"time"

	"churnrisk/core/feature"
	"churnrisk/core/model"
	"churnrisk/core/schema"
	"churnrisk/core/types"
	"churnrisk/internal/errors"
)

// Engine scores customer records against the loaded artifacts.
type Engine struct {
	artifacts *model.Artifacts
}

// NewEngine creates a scoring engine over loaded artifacts.
func NewEngine(artifacts *model.Artifacts) (*Engine, error) {
	if artifacts == nil || artifacts.Classifier == nil || artifacts.Scaler == nil {
		return nil, errors.New(errors.TypeArtifact, "scoring engine requires loaded artifacts")
	}
	return &Engine{artifacts: artifacts}, nil
}

// Threshold returns the trained decision threshold.
func (e *Engine) Threshold() float64 {
	return e.artifacts.Threshold
}

// Score runs one record through transform, classification, and the
// threshold decision. Validation failures reject only this request and
// leave process state untouched.
func (e *Engine) Score(rec *types.RawAttributeRecord) (*types.Prediction, error) {
	p, _, err := e.ScoreWithFlags(rec)
	return p, err
}

// ScoreWithFlags scores one record and also reports which engineered risk
// indicators fired, for callers that surface signals to a human reviewer.
func (e *Engine) ScoreWithFlags(rec *types.RawAttributeRecord) (*types.Prediction, []string, error) {
	vec, err := feature.Transform(rec, e.artifacts.Scaler)
	if err != nil {
		return nil, nil, err
	}

	probability, err := e.artifacts.Classifier.PredictProbability(vec)
	if err != nil {
		return nil, nil, err
	}

	return &types.Prediction{
		CustomerID:    rec.CustomerID,
		Probability:   probability,
		Decision:      probability >= e.artifacts.Threshold,
		Threshold:     e.artifacts.Threshold,
		RiskTier:      types.TierFor(probability),
		SchemaVersion: schema.Version,
		ScoredAt:      time.Now().UTC(),
	}, feature.RiskFlags(vec), nil
}

// ScoreBatch scores records independently, stopping at the first error.
// The transform is defined over one record at a time; a batch is a loop.
func (e *Engine) ScoreBatch(recs []*types.RawAttributeRecord) ([]*types.Prediction, error) {
	out := make([]*types.Prediction, 0, len(recs))
	for i, rec := range recs {
		p, err := e.Score(rec)
		if err != nil {
			if de, ok := err.(*errors.Error); ok {
				return nil, de.WithContext("record_index", i)
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
