// Package feature - Feature vector type
package feature

import (
	"churnrisk/core/schema"
	"churnrisk/internal/errors"
)

// Vector is an ordered numeric feature vector aligned to the schema: element
// i is the value of schema.Columns[i]. The classifier consumes it
// positionally.
type Vector []float64

// At returns the value of a named column.
func (v Vector) At(name string) (float64, error) {
	i := schema.Index(name)
	if i < 0 {
		return 0, errors.Schema("unknown feature column: " + name)
	}
	if i >= len(v) {
		return 0, errors.Schema("vector shorter than schema")
	}
	return v[i], nil
}

// CheckSchema verifies the vector has exactly one value per schema column.
// A failure here is an internal invariant violation in alignment, never an
// input problem.
func (v Vector) CheckSchema() error {
	if len(v) != schema.Size() {
		return errors.Newf(errors.TypeSchema,
			"aligned vector has %d columns, schema %s expects %d",
			len(v), schema.Version, schema.Size())
	}
	return nil
}
