// Package feature - Transformation invariant tests
// These tests pin the pipeline to the exact training-time transform: column
// order, encoding order, derived-feature math over raw magnitudes, and the
// documented tenure-bucket gap.
package feature

import (
	"math"
	"testing"

	"churnrisk/core/schema"
	"churnrisk/core/types"
	"churnrisk/internal/errors"
)

// identityScaler passes raw values through, so expected vector values can
// be computed by hand.
type identityScaler struct{}

func (identityScaler) Transform(t, m, tc float64) (float64, float64, float64) {
	return t, m, tc
}

// shiftScaler applies a visible linear transform so tests can prove the
// scaling happened, and happened last.
type shiftScaler struct{}

func (shiftScaler) Transform(t, m, tc float64) (float64, float64, float64) {
	return (t - 32) / 24, (m - 65) / 30, (tc - 2280) / 2260
}

func baseRecord() *types.RawAttributeRecord {
	rec := &types.RawAttributeRecord{
		Contract:        types.ContractMonthToMonth,
		InternetService: types.InternetDSL,
		PaymentMethod:   types.PaymentBankTransfer,
		Tenure:          12,
		MonthlyCharges:  70.0,
	}
	rec.ApplyDefaults()
	return rec
}

func mustTransform(t *testing.T, rec *types.RawAttributeRecord, s Scaler) Vector {
	t.Helper()
	vec, err := Transform(rec, s)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	return vec
}

func at(t *testing.T, vec Vector, col string) float64 {
	t.Helper()
	v, err := vec.At(col)
	if err != nil {
		t.Fatalf("At(%q) failed: %v", col, err)
	}
	return v
}

func TestTransformIsDeterministic(t *testing.T) {
	rec := baseRecord()
	rec.InternetService = types.InternetFiberOptic
	rec.PaymentMethod = types.PaymentElectronicCheck
	rec.PaperlessBilling = "Yes"

	a := mustTransform(t, rec, shiftScaler{})
	b := mustTransform(t, rec, shiftScaler{})

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("column %s differs between identical calls: %v vs %v",
				schema.Columns[i], a[i], b[i])
		}
	}
}

func TestTransformAlwaysProducesFullSchema(t *testing.T) {
	cases := map[string]*types.RawAttributeRecord{
		"baselines only": baseRecord(),
		"all categories present": func() *types.RawAttributeRecord {
			rec := baseRecord()
			rec.InternetService = types.InternetFiberOptic
			rec.PaymentMethod = types.PaymentElectronicCheck
			return rec
		}(),
		"no internet": func() *types.RawAttributeRecord {
			rec := &types.RawAttributeRecord{
				Contract:        types.ContractTwoYear,
				InternetService: types.InternetNone,
				PaymentMethod:   types.PaymentMailedCheck,
				Tenure:          60,
				MonthlyCharges:  20.0,
			}
			rec.ApplyDefaults()
			return rec
		}(),
	}

	for name, rec := range cases {
		vec := mustTransform(t, rec, identityScaler{})
		if len(vec) != schema.Size() {
			t.Errorf("%s: got %d columns, want %d", name, len(vec), schema.Size())
		}
		if err := vec.CheckSchema(); err != nil {
			t.Errorf("%s: CheckSchema failed: %v", name, err)
		}
		for i, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: column %s is not finite: %v", name, schema.Columns[i], v)
			}
		}
	}
}

// TestTenureBuckets pins the documented coverage gap: tenure in (24,48]
// maps to no bucket flag. The classifier was trained against this gap, so
// it is preserved, not fixed.
func TestTenureBuckets(t *testing.T) {
	cases := []struct {
		tenure                  int
		isNew, isEstab, isLoyal float64
	}{
		{0, 1, 0, 0},
		{12, 1, 0, 0},
		{13, 0, 1, 0},
		{24, 0, 1, 0},
		{25, 0, 0, 0}, // gap
		{36, 0, 0, 0}, // gap
		{48, 0, 0, 0}, // gap
		{49, 0, 0, 1},
		{72, 0, 0, 1},
	}

	for _, tc := range cases {
		rec := baseRecord()
		rec.Tenure = tc.tenure
		rec.TotalCharges = 0
		rec.ApplyDefaults()
		vec := mustTransform(t, rec, identityScaler{})

		if got := at(t, vec, "IsNewCustomer"); got != tc.isNew {
			t.Errorf("tenure=%d: IsNewCustomer=%v, want %v", tc.tenure, got, tc.isNew)
		}
		if got := at(t, vec, "IsEstablished"); got != tc.isEstab {
			t.Errorf("tenure=%d: IsEstablished=%v, want %v", tc.tenure, got, tc.isEstab)
		}
		if got := at(t, vec, "IsLoyalCustomer"); got != tc.isLoyal {
			t.Errorf("tenure=%d: IsLoyalCustomer=%v, want %v", tc.tenure, got, tc.isLoyal)
		}
	}
}

// TestOneHotBaselineDrop proves the baseline category emits all-zero
// indicators instead of a column of its own.
func TestOneHotBaselineDrop(t *testing.T) {
	rec := baseRecord() // DSL + bank transfer, both baselines
	vec := mustTransform(t, rec, identityScaler{})

	for _, col := range []string{
		"InternetService_Fiber optic",
		"InternetService_No",
		"PaymentMethod_Credit card (automatic)",
		"PaymentMethod_Electronic check",
		"PaymentMethod_Mailed check",
	} {
		if got := at(t, vec, col); got != 0 {
			t.Errorf("baseline input: %s=%v, want 0", col, got)
		}
	}

	rec.InternetService = types.InternetFiberOptic
	rec.PaymentMethod = types.PaymentCreditCard
	vec = mustTransform(t, rec, identityScaler{})

	if got := at(t, vec, "InternetService_Fiber optic"); got != 1 {
		t.Errorf("InternetService_Fiber optic=%v, want 1", got)
	}
	if got := at(t, vec, "InternetService_No"); got != 0 {
		t.Errorf("InternetService_No=%v, want 0", got)
	}
	if got := at(t, vec, "PaymentMethod_Credit card (automatic)"); got != 1 {
		t.Errorf("PaymentMethod_Credit card (automatic)=%v, want 1", got)
	}
	if got := at(t, vec, "PaymentMethod_Electronic check"); got != 0 {
		t.Errorf("PaymentMethod_Electronic check=%v, want 0", got)
	}
}

// TestDerivedChargeFeatures pins the documented worked example:
// tenure=12, MonthlyCharges=70, TotalCharges=840.
func TestDerivedChargeFeatures(t *testing.T) {
	rec := baseRecord()
	rec.Tenure = 12
	rec.MonthlyCharges = 70.0
	rec.TotalCharges = 840.0
	vec := mustTransform(t, rec, identityScaler{})

	if got, want := at(t, vec, "ChargePerTenureMonth"), 840.0/13.0; got != want {
		t.Errorf("ChargePerTenureMonth=%v, want %v", got, want)
	}
	if got, want := at(t, vec, "ChargeTenureRatio"), 70.0/13.0; got != want {
		t.Errorf("ChargeTenureRatio=%v, want %v", got, want)
	}
	// 70 is not > 70
	if got := at(t, vec, "IsHighSpender"); got != 0 {
		t.Errorf("IsHighSpender=%v, want 0", got)
	}
	if got := at(t, vec, "IsNewCustomer"); got != 1 {
		t.Errorf("IsNewCustomer=%v, want 1", got)
	}
}

// TestHighRiskProfileConjunction proves the flag is an exact conjunction of
// the three risk signals, not a score.
func TestHighRiskProfileConjunction(t *testing.T) {
	risky := func() *types.RawAttributeRecord {
		rec := baseRecord()
		rec.Contract = types.ContractMonthToMonth
		rec.InternetService = types.InternetFiberOptic
		rec.PaymentMethod = types.PaymentElectronicCheck
		rec.ApplyDefaults()
		return rec
	}

	vec := mustTransform(t, risky(), identityScaler{})
	if got := at(t, vec, "HighRiskProfile"); got != 1 {
		t.Fatalf("HighRiskProfile=%v, want 1 for full conjunction", got)
	}

	mutations := []func(*types.RawAttributeRecord){
		func(r *types.RawAttributeRecord) { r.Contract = types.ContractOneYear },
		func(r *types.RawAttributeRecord) { r.InternetService = types.InternetDSL },
		func(r *types.RawAttributeRecord) { r.PaymentMethod = types.PaymentMailedCheck },
	}
	for i, mutate := range mutations {
		rec := risky()
		mutate(rec)
		vec := mustTransform(t, rec, identityScaler{})
		if got := at(t, vec, "HighRiskProfile"); got != 0 {
			t.Errorf("mutation %d: HighRiskProfile=%v, want 0", i, got)
		}
	}
}

// TestDerivedFeaturesUseRawMagnitudes proves the derived ratios are
// computed from raw values even when the scaler visibly rewrites the three
// continuous columns. Scaling before derivation would silently change the
// model's learned relationships.
func TestDerivedFeaturesUseRawMagnitudes(t *testing.T) {
	rec := baseRecord()
	rec.Tenure = 12
	rec.MonthlyCharges = 70.0
	rec.TotalCharges = 840.0
	vec := mustTransform(t, rec, shiftScaler{})

	// Ratios match hand computation from the ORIGINAL inputs.
	if got, want := at(t, vec, "ChargePerTenureMonth"), 840.0/13.0; got != want {
		t.Errorf("ChargePerTenureMonth=%v, want raw-based %v", got, want)
	}
	if got, want := at(t, vec, "ChargeTenureRatio"), 70.0/13.0; got != want {
		t.Errorf("ChargeTenureRatio=%v, want raw-based %v", got, want)
	}

	// While the continuous columns themselves are scaled.
	if got, want := at(t, vec, "tenure"), (12.0-32)/24; got != want {
		t.Errorf("tenure=%v, want scaled %v", got, want)
	}
	if got, want := at(t, vec, "MonthlyCharges"), (70.0-65)/30; got != want {
		t.Errorf("MonthlyCharges=%v, want scaled %v", got, want)
	}
	if got, want := at(t, vec, "TotalCharges"), (840.0-2280)/2260; got != want {
		t.Errorf("TotalCharges=%v, want scaled %v", got, want)
	}
}

// TestNoServiceSentinelsCollapse proves the sentinels normalize to "No"
// before binary encoding and still count as absent services.
func TestNoServiceSentinelsCollapse(t *testing.T) {
	rec := &types.RawAttributeRecord{
		Contract:         types.ContractTwoYear,
		InternetService:  types.InternetNone,
		PaymentMethod:    types.PaymentCreditCard,
		Tenure:           24,
		MonthlyCharges:   20.0,
		PhoneService:     "Yes",
		MultipleLines:    types.NoPhoneService,
		OnlineSecurity:   types.NoInternetService,
		OnlineBackup:     types.NoInternetService,
		DeviceProtection: types.NoInternetService,
		TechSupport:      types.NoInternetService,
		StreamingTV:      types.NoInternetService,
		StreamingMovies:  types.NoInternetService,
	}
	rec.ApplyDefaults()

	vec := mustTransform(t, rec, identityScaler{})
	for _, col := range []string{
		"MultipleLines", "OnlineSecurity", "OnlineBackup",
		"DeviceProtection", "TechSupport", "StreamingTV", "StreamingMovies",
	} {
		if got := at(t, vec, col); got != 0 {
			t.Errorf("%s=%v, want 0 after sentinel collapse", col, got)
		}
	}

	// Phone only: one of the eight service slots.
	if got := at(t, vec, "TotalServices"); got != 1 {
		t.Errorf("TotalServices=%v, want 1", got)
	}
	if got := at(t, vec, "HasMinimalServices"); got != 1 {
		t.Errorf("HasMinimalServices=%v, want 1", got)
	}
}

func TestTotalServicesCountsInternetPresence(t *testing.T) {
	rec := baseRecord()
	rec.InternetService = types.InternetFiberOptic
	rec.OnlineSecurity = "Yes"
	rec.TechSupport = "Yes"
	rec.StreamingTV = "Yes"

	vec := mustTransform(t, rec, identityScaler{})
	// phone + internet presence + security + support + tv
	if got := at(t, vec, "TotalServices"); got != 5 {
		t.Errorf("TotalServices=%v, want 5", got)
	}
	if got, want := at(t, vec, "ServiceDensity"), 5.0/13.0; got != want {
		t.Errorf("ServiceDensity=%v, want %v", got, want)
	}
	if got := at(t, vec, "HasMinimalServices"); got != 0 {
		t.Errorf("HasMinimalServices=%v, want 0", got)
	}
}

// TestHighRiskScenario pins the documented end-to-end scenario's flag
// values. The probability is model-dependent; the flags are not.
func TestHighRiskScenario(t *testing.T) {
	rec := &types.RawAttributeRecord{
		Contract:         types.ContractMonthToMonth,
		InternetService:  types.InternetFiberOptic,
		Tenure:           3,
		MonthlyCharges:   95.0,
		PaymentMethod:    types.PaymentElectronicCheck,
		PaperlessBilling: "Yes",
		OnlineSecurity:   "No",
		TechSupport:      "No",
	}
	rec.ApplyDefaults()

	vec := mustTransform(t, rec, identityScaler{})
	for _, col := range []string{
		"HighRiskProfile", "FiberNoAddons", "NewHighSpender",
		"IsNewCustomer", "IsHighSpender", "PaperlessElectronicCheck",
	} {
		if got := at(t, vec, col); got != 1 {
			t.Errorf("%s=%v, want 1", col, got)
		}
	}
	if got := at(t, vec, "HasAutoPay"); got != 0 {
		t.Errorf("HasAutoPay=%v, want 0 for electronic check", got)
	}

	flags := RiskFlags(vec)
	if len(flags) == 0 {
		t.Error("expected risk flags to fire for the high-risk scenario")
	}
}

func TestHasAutoPay(t *testing.T) {
	for _, tc := range []struct {
		payment string
		want    float64
	}{
		{types.PaymentBankTransfer, 1},
		{types.PaymentCreditCard, 1},
		{types.PaymentElectronicCheck, 0},
		{types.PaymentMailedCheck, 0},
	} {
		rec := baseRecord()
		rec.PaymentMethod = tc.payment
		vec := mustTransform(t, rec, identityScaler{})
		if got := at(t, vec, "HasAutoPay"); got != tc.want {
			t.Errorf("payment=%q: HasAutoPay=%v, want %v", tc.payment, got, tc.want)
		}
	}
}

// TestTransformRejectsUnknownCategory proves validation runs before any
// feature work and never coerces an unmapped value to a default category.
func TestTransformRejectsUnknownCategory(t *testing.T) {
	rec := baseRecord()
	rec.Contract = "Lifetime"

	_, err := Transform(rec, identityScaler{})
	if err == nil {
		t.Fatal("expected input validation error for unknown Contract value")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("expected INPUT_ERROR, got: %v", err)
	}
}

func TestTransformBatchIsLoopOverSingles(t *testing.T) {
	recs := []*types.RawAttributeRecord{baseRecord(), baseRecord()}
	recs[1].Tenure = 48
	recs[1].TotalCharges = 0
	recs[1].ApplyDefaults()

	batch, err := TransformBatch(recs, identityScaler{})
	if err != nil {
		t.Fatalf("TransformBatch failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d vectors, want 2", len(batch))
	}
	for i, rec := range recs {
		single := mustTransform(t, rec, identityScaler{})
		for j := range single {
			if batch[i][j] != single[j] {
				t.Errorf("record %d column %s: batch %v != single %v",
					i, schema.Columns[j], batch[i][j], single[j])
			}
		}
	}
}
