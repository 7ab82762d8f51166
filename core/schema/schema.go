// Package schema owns the versioned feature schema the trained classifier
// was fit against. Column order is load-bearing: the classifier consumes the
// vector positionally, so any change to the trained model's feature set must
// bump Version and ship matching artifacts.
package schema

// Version identifies the feature schema. Artifact loading validates the
// classifier against this version.
const Version = "churn-features/v1"

// Columns is the exact, ordered feature schema (38 columns).
var Columns = []string{
	"gender", "SeniorCitizen", "Partner", "Dependents", "tenure",
	"PhoneService", "MultipleLines", "OnlineSecurity", "OnlineBackup",
	"DeviceProtection", "TechSupport", "StreamingTV", "StreamingMovies",
	"Contract", "PaperlessBilling", "MonthlyCharges", "TotalCharges",
	"IsNewCustomer", "IsEstablished", "IsLoyalCustomer",
	"ChargePerTenureMonth", "IsHighSpender", "ChargeTenureRatio",
	"TotalServices", "ServiceDensity", "HasMinimalServices",
	"HighRiskProfile", "SeniorNoSupport", "SingleNoFamily",
	"NewHighSpender", "PaperlessElectronicCheck", "HasAutoPay",
	"FiberNoAddons", "InternetService_Fiber optic", "InternetService_No",
	"PaymentMethod_Credit card (automatic)", "PaymentMethod_Electronic check",
	"PaymentMethod_Mailed check",
}

// Size is the number of columns in the schema.
func Size() int {
	return len(Columns)
}

// Index returns the position of a column, or -1 if the column is not part
// of the schema.
func Index(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the schema contains the named column.
func Has(name string) bool {
	return Index(name) >= 0
}
