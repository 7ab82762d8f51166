// Package model - Logistic classifier artifact
package model

import (
	"math"

	"churnrisk/core/feature"
	"churnrisk/core/schema"
	"churnrisk/internal/errors"
)

// logisticArtifact is the JSON export of a trained logistic-regression
// classifier. Coefficients are keyed by feature column name so the loader
// can verify the artifact against the schema instead of trusting position.
type logisticArtifact struct {
	SchemaVersion string             `json:"schema_version"`
	Intercept     float64            `json:"intercept"`
	Coefficients  map[string]float64 `json:"coefficients"`
}

// Logistic is a trained logistic-regression churn classifier. Weights are
// stored in schema column order; the artifact's name-keyed coefficients are
// resolved to positions at load time.
type Logistic struct {
	intercept float64
	weights   []float64
}

// NewLogistic builds a classifier from schema-ordered weights. Exposed for
// tests; production artifacts go through LoadClassifier.
func NewLogistic(intercept float64, weights []float64) (*Logistic, error) {
	if len(weights) != schema.Size() {
		return nil, errors.Newf(errors.TypeArtifact,
			"classifier has %d weights, schema %s expects %d",
			len(weights), schema.Version, schema.Size())
	}
	return &Logistic{intercept: intercept, weights: weights}, nil
}

// LoadClassifier reads a serialized logistic classifier and validates it
// against the current feature schema: the schema version must match and
// every schema column must carry exactly one coefficient. An incompatible
// artifact is a load failure, not a scoring-time surprise.
func LoadClassifier(path string) (*Logistic, error) {
	var art logisticArtifact
	if err := readJSON(path, &art); err != nil {
		return nil, err
	}

	if art.SchemaVersion != schema.Version {
		return nil, errors.Newf(errors.TypeArtifact,
			"classifier was fit against schema %q, this build expects %q",
			art.SchemaVersion, schema.Version)
	}
	if len(art.Coefficients) != schema.Size() {
		return nil, errors.Newf(errors.TypeArtifact,
			"classifier carries %d coefficients, schema expects %d",
			len(art.Coefficients), schema.Size())
	}

	weights := make([]float64, schema.Size())
	for i, col := range schema.Columns {
		w, ok := art.Coefficients[col]
		if !ok {
			return nil, errors.Newf(errors.TypeArtifact,
				"classifier missing coefficient for column %q", col)
		}
		weights[i] = w
	}

	return &Logistic{intercept: art.Intercept, weights: weights}, nil
}

// PredictProbability returns the churn probability for an aligned vector.
func (l *Logistic) PredictProbability(vec feature.Vector) (float64, error) {
	if err := vec.CheckSchema(); err != nil {
		return 0, err
	}
	z := l.intercept
	for i, w := range l.weights {
		z += w * vec[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
