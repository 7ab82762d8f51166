// Package feature implements the deterministic feature transformation the
// trained churn classifier expects. The pipeline must reproduce, bit for
// bit, the transformation applied at model-training time: binary encoding,
// no-service normalization, ordinal and one-hot encoding, derived features
// over raw magnitudes, scaling of the three continuous columns, and finally
// alignment to the fixed column schema.
package feature

import (
	"churnrisk/core/schema"
	"churnrisk/core/types"
)

// Scaler is the previously-fit linear transform over the three continuous
// columns. Immutable at inference time.
type Scaler interface {
	// Transform scales (tenure, MonthlyCharges, TotalCharges).
	Transform(tenure, monthlyCharges, totalCharges float64) (float64, float64, float64)
}

// Transform converts one raw customer record into the aligned feature
// vector. It is deterministic and side-effect free; validation runs before
// any feature is computed, so an out-of-enumeration value never reaches the
// encoding steps and NaN never reaches the classifier.
func Transform(rec *types.RawAttributeRecord, scaler Scaler) (Vector, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	f := make(map[string]float64, schema.Size())

	// Step 1: binary encoding.
	f["gender"] = femaleMale(rec.Gender)
	f["SeniorCitizen"] = float64(rec.SeniorCitizen)
	f["Partner"] = yesNo(rec.Partner)
	f["Dependents"] = yesNo(rec.Dependents)
	f["PhoneService"] = yesNo(rec.PhoneService)
	f["PaperlessBilling"] = yesNo(rec.PaperlessBilling)

	// Step 2: collapse the no-service sentinels to "No" BEFORE binary
	// encoding. Encoding first would leave the sentinel unmapped.
	f["MultipleLines"] = yesNo(collapseNoService(rec.MultipleLines))
	f["OnlineSecurity"] = yesNo(collapseNoService(rec.OnlineSecurity))
	f["OnlineBackup"] = yesNo(collapseNoService(rec.OnlineBackup))
	f["DeviceProtection"] = yesNo(collapseNoService(rec.DeviceProtection))
	f["TechSupport"] = yesNo(collapseNoService(rec.TechSupport))
	f["StreamingTV"] = yesNo(collapseNoService(rec.StreamingTV))
	f["StreamingMovies"] = yesNo(collapseNoService(rec.StreamingMovies))

	// Step 3: ordinal Contract. The model treats contract length as
	// monotonic, so this is not one-hot.
	f["Contract"] = contractOrdinal(rec.Contract)

	// Step 4: one-hot with baseline drop (DSL and bank transfer are the
	// dropped baselines). Only the indicator for the actual category is
	// emitted here; alignment fills the absent ones with 0.
	if rec.InternetService != types.InternetDSL {
		f["InternetService_"+rec.InternetService] = 1
	}
	if rec.PaymentMethod != types.PaymentBankTransfer {
		f["PaymentMethod_"+rec.PaymentMethod] = 1
	}

	// Step 5: derived features, from raw (pre-scaling) magnitudes.
	tenure := float64(rec.Tenure)
	monthly := rec.MonthlyCharges
	total := rec.TotalCharges

	f["IsNewCustomer"] = boolFeature(rec.Tenure <= 12)
	f["IsEstablished"] = boolFeature(rec.Tenure > 12 && rec.Tenure <= 24)
	// Tenure in (24,48] intentionally maps to no bucket flag; the model was
	// trained against this gap.
	f["IsLoyalCustomer"] = boolFeature(rec.Tenure > 48)

	// The +1 is a smoothing constant so brand-new customers do not divide
	// by zero.
	f["ChargePerTenureMonth"] = total / (tenure + 1)
	f["IsHighSpender"] = boolFeature(monthly > 70)
	f["ChargeTenureRatio"] = monthly / (tenure + 1)

	hasInternet := boolFeature(rec.InternetService != types.InternetNone)
	totalServices := f["PhoneService"] + hasInternet +
		f["OnlineSecurity"] + f["OnlineBackup"] + f["DeviceProtection"] +
		f["TechSupport"] + f["StreamingTV"] + f["StreamingMovies"]
	f["TotalServices"] = totalServices
	f["ServiceDensity"] = totalServices / (tenure + 1)
	f["HasMinimalServices"] = boolFeature(totalServices <= 2)

	hasFiber := rec.InternetService == types.InternetFiberOptic
	hasECheck := rec.PaymentMethod == types.PaymentElectronicCheck
	hasAutoPay := rec.PaymentMethod == types.PaymentBankTransfer ||
		rec.PaymentMethod == types.PaymentCreditCard

	f["HighRiskProfile"] = boolFeature(
		rec.Contract == types.ContractMonthToMonth && hasFiber && hasECheck)
	f["SeniorNoSupport"] = boolFeature(rec.SeniorCitizen == 1 && f["TechSupport"] == 0)
	f["SingleNoFamily"] = boolFeature(f["Partner"] == 0 && f["Dependents"] == 0)
	f["NewHighSpender"] = boolFeature(rec.Tenure <= 12 && monthly > 70)
	f["PaperlessElectronicCheck"] = boolFeature(f["PaperlessBilling"] == 1 && hasECheck)
	f["HasAutoPay"] = boolFeature(hasAutoPay)
	f["FiberNoAddons"] = boolFeature(hasFiber && f["OnlineSecurity"] == 0 && f["TechSupport"] == 0)

	// Step 6: scale the three continuous columns last, after every derived
	// feature that depends on their raw values.
	f["tenure"], f["MonthlyCharges"], f["TotalCharges"] =
		scaler.Transform(tenure, monthly, total)

	// Step 7: align to the fixed schema. Absent columns (one-hot indicators
	// whose category never appeared) fill with 0; anything outside the
	// schema is dropped.
	vec := make(Vector, schema.Size())
	for i, col := range schema.Columns {
		vec[i] = f[col]
	}
	if err := vec.CheckSchema(); err != nil {
		return nil, err
	}
	return vec, nil
}

// TransformBatch scores a batch as independent single-record transforms.
// The pipeline is defined over exactly one record at a time; batching is a
// loop, not a vectorized path.
func TransformBatch(recs []*types.RawAttributeRecord, scaler Scaler) ([]Vector, error) {
	out := make([]Vector, 0, len(recs))
	for _, rec := range recs {
		vec, err := Transform(rec, scaler)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

// collapseNoService rewrites the absent-parent-service sentinels to plain
// "No" so the binary encoding maps them.
func collapseNoService(v string) string {
	if v == types.NoPhoneService || v == types.NoInternetService {
		return "No"
	}
	return v
}

func yesNo(v string) float64 {
	if v == "Yes" {
		return 1
	}
	return 0
}

func femaleMale(v string) float64 {
	if v == types.GenderMale {
		return 1
	}
	return 0
}

func contractOrdinal(v string) float64 {
	switch v {
	case types.ContractOneYear:
		return 1
	case types.ContractTwoYear:
		return 2
	default: // Month-to-month
		return 0
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
