// Package model loads and wraps the pre-fitted scoring artifacts: the
// classifier, the scaler, and the decision threshold. All three are opaque
// to the rest of the pipeline behind narrow interfaces, loaded once at
// process start, and immutable thereafter, so they are safe to share across
// concurrent requests without locking.
package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"churnrisk/core/feature"
	"churnrisk/internal/errors"
)

// Artifact file names inside the artifacts directory.
const (
	ClassifierFile = "classifier.json"
	ScalerFile     = "scaler.json"
	ThresholdFile  = "threshold.json"
)

// Classifier is the trained binary churn model. Implementations must be
// deterministic and side-effect free.
type Classifier interface {
	// PredictProbability returns the probability of churn in [0,1] for an
	// aligned feature vector.
	PredictProbability(vec feature.Vector) (float64, error)
}

// Artifacts bundles the loaded scoring artifacts.
type Artifacts struct {
	Classifier Classifier
	Scaler     feature.Scaler

	// Threshold is the trained decision cut: decision = probability >= Threshold.
	Threshold float64
}

// Load reads the three artifacts from dir. Any missing or undeserializable
// artifact is fatal: the pipeline must refuse to serve requests without a
// complete, schema-compatible set.
func Load(dir string) (*Artifacts, error) {
	clf, err := LoadClassifier(filepath.Join(dir, ClassifierFile))
	if err != nil {
		return nil, err
	}
	scaler, err := LoadScaler(filepath.Join(dir, ScalerFile))
	if err != nil {
		return nil, err
	}
	threshold, err := LoadThreshold(filepath.Join(dir, ThresholdFile))
	if err != nil {
		return nil, err
	}
	return &Artifacts{
		Classifier: clf,
		Scaler:     scaler,
		Threshold:  threshold,
	}, nil
}

// thresholdArtifact is the serialized decision threshold.
type thresholdArtifact struct {
	Threshold float64 `json:"threshold"`
}

// LoadThreshold reads the serialized decision threshold.
func LoadThreshold(path string) (float64, error) {
	var art thresholdArtifact
	if err := readJSON(path, &art); err != nil {
		return 0, err
	}
	if math.IsNaN(art.Threshold) || art.Threshold <= 0 || art.Threshold >= 1 {
		return 0, errors.Newf(errors.TypeArtifact,
			"threshold %v out of range (0,1): %s", art.Threshold, path)
	}
	return art.Threshold, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Artifact(path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Artifact(path, err)
	}
	return nil
}
