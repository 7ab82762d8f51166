// Package feature - Engineered risk flag inspection
package feature

// riskFlagColumns are the engineered binary indicators worth surfacing to a
// human reviewer, in schema order.
var riskFlagColumns = []string{
	"IsNewCustomer",
	"IsHighSpender",
	"HasMinimalServices",
	"HighRiskProfile",
	"SeniorNoSupport",
	"SingleNoFamily",
	"NewHighSpender",
	"PaperlessElectronicCheck",
	"FiberNoAddons",
}

// RiskFlags returns the names of the engineered risk indicators set in the
// vector.
func RiskFlags(vec Vector) []string {
	var fired []string
	for _, col := range riskFlagColumns {
		if v, err := vec.At(col); err == nil && v == 1 {
			fired = append(fired, col)
		}
	}
	return fired
}
