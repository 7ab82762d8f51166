// Package schema - Schema invariant tests
package schema

import "testing"

// TestSchemaHas38UniqueColumns pins the trained classifier's contract: 38
// columns, no duplicates, fixed order.
func TestSchemaHas38UniqueColumns(t *testing.T) {
	if Size() != 38 {
		t.Fatalf("schema has %d columns, want 38", Size())
	}

	seen := make(map[string]bool, Size())
	for _, col := range Columns {
		if seen[col] {
			t.Errorf("duplicate column: %s", col)
		}
		seen[col] = true
	}
}

// TestColumnOrderIsLoadBearing pins positions the classifier depends on.
// Moving any of these silently corrupts predictions.
func TestColumnOrderIsLoadBearing(t *testing.T) {
	anchors := map[string]int{
		"gender":                      0,
		"tenure":                      4,
		"Contract":                    13,
		"MonthlyCharges":              15,
		"TotalCharges":                16,
		"IsNewCustomer":               17,
		"HighRiskProfile":             26,
		"FiberNoAddons":               32,
		"InternetService_Fiber optic": 33,
		"PaymentMethod_Mailed check":  37,
	}
	for col, want := range anchors {
		if got := Index(col); got != want {
			t.Errorf("Index(%q)=%d, want %d", col, got, want)
		}
	}
}

func TestIndexUnknownColumn(t *testing.T) {
	if got := Index("ChurnScore"); got != -1 {
		t.Errorf("Index of unknown column = %d, want -1", got)
	}
	if Has("ChurnScore") {
		t.Error("Has reported an unknown column")
	}
	if !Has("ServiceDensity") {
		t.Error("Has missed a known column")
	}
}
