// Package types - Customer record types
package types

import (
	"math"

	"churnrisk/internal/errors"
)

// Categorical enumerations. Values are the literal strings the training data
// used; encoding depends on exact matches.
const (
	ContractMonthToMonth = "Month-to-month"
	ContractOneYear      = "One year"
	ContractTwoYear      = "Two year"

	InternetFiberOptic = "Fiber optic"
	InternetDSL        = "DSL"
	InternetNone       = "No"

	PaymentElectronicCheck = "Electronic check"
	PaymentMailedCheck     = "Mailed check"
	PaymentBankTransfer    = "Bank transfer (automatic)"
	PaymentCreditCard      = "Credit card (automatic)"

	GenderFemale = "Female"
	GenderMale   = "Male"

	// Sentinels carried by the service add-on fields when the parent
	// service is absent. They collapse to "No" before binary encoding.
	NoPhoneService    = "No phone service"
	NoInternetService = "No internet service"
)

// MaxTenureMonths is the upper bound of the tenure range seen in training.
const MaxTenureMonths = 72

// RawAttributeRecord is one customer as entered by a caller. It is
// constructed per request, consumed once by the transformer, and discarded.
type RawAttributeRecord struct {
	// CustomerID is an optional caller-supplied identifier, used only for
	// audit and stream keying. It never participates in scoring.
	CustomerID string `json:"customer_id,omitempty"`

	Gender        string `json:"gender"`
	SeniorCitizen int    `json:"SeniorCitizen"`
	Partner       string `json:"Partner"`
	Dependents    string `json:"Dependents"`

	// Tenure is the customer age in whole months, 0-72.
	Tenure int `json:"tenure"`

	PhoneService     string `json:"PhoneService"`
	MultipleLines    string `json:"MultipleLines"`
	InternetService  string `json:"InternetService"`
	OnlineSecurity   string `json:"OnlineSecurity"`
	OnlineBackup     string `json:"OnlineBackup"`
	DeviceProtection string `json:"DeviceProtection"`
	TechSupport      string `json:"TechSupport"`
	StreamingTV      string `json:"StreamingTV"`
	StreamingMovies  string `json:"StreamingMovies"`

	Contract         string `json:"Contract"`
	PaperlessBilling string `json:"PaperlessBilling"`
	PaymentMethod    string `json:"PaymentMethod"`

	MonthlyCharges float64 `json:"MonthlyCharges"`

	// TotalCharges defaults to Tenure * MonthlyCharges when the caller does
	// not know it separately. See ApplyDefaults.
	TotalCharges float64 `json:"TotalCharges"`
}

// ApplyDefaults fills unset fields with the documented caller defaults and
// derives TotalCharges when it was not supplied. The add-on sentinels are
// substituted when the parent service is absent, matching how callers of the
// trained model populate the form.
func (r *RawAttributeRecord) ApplyDefaults() {
	setIfEmpty(&r.Gender, GenderFemale)
	setIfEmpty(&r.Partner, "No")
	setIfEmpty(&r.Dependents, "No")
	setIfEmpty(&r.PhoneService, "Yes")
	setIfEmpty(&r.MultipleLines, "No")
	setIfEmpty(&r.OnlineBackup, "No")
	setIfEmpty(&r.DeviceProtection, "No")
	setIfEmpty(&r.StreamingTV, "No")
	setIfEmpty(&r.StreamingMovies, "No")

	if r.InternetService == InternetNone {
		setIfEmpty(&r.OnlineSecurity, NoInternetService)
		setIfEmpty(&r.TechSupport, NoInternetService)
	} else {
		setIfEmpty(&r.OnlineSecurity, "No")
		setIfEmpty(&r.TechSupport, "No")
	}

	setIfEmpty(&r.PaperlessBilling, "No")

	if r.TotalCharges == 0 {
		r.TotalCharges = float64(r.Tenure) * r.MonthlyCharges
	}
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate rejects any categorical value outside its documented enumeration
// and any numeric field that is out of range or not a number. It runs before
// any feature is computed; unmapped values are never coerced to a default
// category.
func (r *RawAttributeRecord) Validate() error {
	if err := oneOf("gender", r.Gender, GenderFemale, GenderMale); err != nil {
		return err
	}
	if r.SeniorCitizen != 0 && r.SeniorCitizen != 1 {
		return errors.Input("SeniorCitizen", r.SeniorCitizen, "0, 1")
	}
	if err := yesNo("Partner", r.Partner); err != nil {
		return err
	}
	if err := yesNo("Dependents", r.Dependents); err != nil {
		return err
	}
	if r.Tenure < 0 || r.Tenure > MaxTenureMonths {
		return errors.Input("tenure", r.Tenure, "integer months 0-72")
	}
	if err := yesNo("PhoneService", r.PhoneService); err != nil {
		return err
	}
	if err := oneOf("MultipleLines", r.MultipleLines, "Yes", "No", NoPhoneService); err != nil {
		return err
	}
	if err := oneOf("InternetService", r.InternetService, InternetFiberOptic, InternetDSL, InternetNone); err != nil {
		return err
	}
	for _, f := range []struct{ name, value string }{
		{"OnlineSecurity", r.OnlineSecurity},
		{"OnlineBackup", r.OnlineBackup},
		{"DeviceProtection", r.DeviceProtection},
		{"TechSupport", r.TechSupport},
		{"StreamingTV", r.StreamingTV},
		{"StreamingMovies", r.StreamingMovies},
	} {
		if err := oneOf(f.name, f.value, "Yes", "No", NoInternetService); err != nil {
			return err
		}
	}
	if err := oneOf("Contract", r.Contract, ContractMonthToMonth, ContractOneYear, ContractTwoYear); err != nil {
		return err
	}
	if err := yesNo("PaperlessBilling", r.PaperlessBilling); err != nil {
		return err
	}
	if err := oneOf("PaymentMethod", r.PaymentMethod,
		PaymentElectronicCheck, PaymentMailedCheck, PaymentBankTransfer, PaymentCreditCard); err != nil {
		return err
	}
	if err := finiteNonNegative("MonthlyCharges", r.MonthlyCharges); err != nil {
		return err
	}
	if err := finiteNonNegative("TotalCharges", r.TotalCharges); err != nil {
		return err
	}
	return nil
}

func yesNo(field, value string) error {
	return oneOf(field, value, "Yes", "No")
}

func oneOf(field, value string, accepted ...string) error {
	for _, a := range accepted {
		if value == a {
			return nil
		}
	}
	list := ""
	for i, a := range accepted {
		if i > 0 {
			list += ", "
		}
		list += a
	}
	return errors.Input(field, value, list)
}

func finiteNonNegative(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return errors.Input(field, value, "non-negative number")
	}
	return nil
}
