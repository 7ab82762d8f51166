// Package model - Fitted scaler artifact
package model

import (
	"churnrisk/internal/errors"
)

// scalerArtifact is the JSON export of the fitted scaler over the three
// continuous columns. A standard fit exports center=mean, scale=stddev; a
// min-max fit exports center=min, scale=(max-min). Both reduce to the same
// linear transform, so the pipeline never needs to know which was used.
type scalerArtifact struct {
	SchemaVersion string                  `json:"schema_version"`
	Columns       map[string]columnScaler `json:"columns"`
}

type columnScaler struct {
	Center float64 `json:"center"`
	Scale  float64 `json:"scale"`
}

// scaledColumns are the only columns the scaler touches.
var scaledColumns = []string{"tenure", "MonthlyCharges", "TotalCharges"}

// LinearScaler applies the fitted per-column linear transform
// x' = (x - center) / scale. Immutable after load.
type LinearScaler struct {
	tenure  columnScaler
	monthly columnScaler
	total   columnScaler
}

// NewLinearScaler builds a scaler from per-column (center, scale) pairs in
// the order tenure, MonthlyCharges, TotalCharges. Exposed for tests.
func NewLinearScaler(centers, scales [3]float64) (*LinearScaler, error) {
	s := &LinearScaler{
		tenure:  columnScaler{Center: centers[0], Scale: scales[0]},
		monthly: columnScaler{Center: centers[1], Scale: scales[1]},
		total:   columnScaler{Center: centers[2], Scale: scales[2]},
	}
	for i, sc := range scales {
		if sc == 0 {
			return nil, errors.Newf(errors.TypeArtifact,
				"scaler column %s has zero scale", scaledColumns[i])
		}
	}
	return s, nil
}

// LoadScaler reads a serialized fitted scaler and validates it covers
// exactly the three continuous columns.
func LoadScaler(path string) (*LinearScaler, error) {
	var art scalerArtifact
	if err := readJSON(path, &art); err != nil {
		return nil, err
	}

	if len(art.Columns) != len(scaledColumns) {
		return nil, errors.Newf(errors.TypeArtifact,
			"scaler covers %d columns, expected %d", len(art.Columns), len(scaledColumns))
	}

	var centers, scales [3]float64
	for i, col := range scaledColumns {
		cs, ok := art.Columns[col]
		if !ok {
			return nil, errors.Newf(errors.TypeArtifact, "scaler missing column %q", col)
		}
		centers[i] = cs.Center
		scales[i] = cs.Scale
	}

	return NewLinearScaler(centers, scales)
}

// Transform scales (tenure, MonthlyCharges, TotalCharges).
func (s *LinearScaler) Transform(tenure, monthlyCharges, totalCharges float64) (float64, float64, float64) {
	return (tenure - s.tenure.Center) / s.tenure.Scale,
		(monthlyCharges - s.monthly.Center) / s.monthly.Scale,
		(totalCharges - s.total.Center) / s.total.Scale
}

// IdentityScaler passes raw values through unchanged. Useful in tests and
// when derived features need to be checked against hand-computed raw values.
type IdentityScaler struct{}

// Transform returns its inputs unchanged.
func (IdentityScaler) Transform(tenure, monthlyCharges, totalCharges float64) (float64, float64, float64) {
	return tenure, monthlyCharges, totalCharges
}
