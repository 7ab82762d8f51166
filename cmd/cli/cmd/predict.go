// Package cmd - predict command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"churnrisk/core/output"
	"churnrisk/core/types"
)

var (
	predictInput  string
	predictFormat string

	flagCustomerID     string
	flagContract       string
	flagInternet       string
	flagTenure         int
	flagMonthly        string
	flagTotal          string
	flagPayment        string
	flagPaperless      string
	flagOnlineSecurity string
	flagTechSupport    string
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one customer",
	Long: `Score a single customer record and print the churn probability,
threshold decision, and risk tier.

The record comes either from a JSON file (--input) or from flags mirroring
the account attributes. Unset attributes use the documented defaults.

Examples:
  churnrisk predict --contract "Month-to-month" --internet "Fiber optic" \
      --tenure 3 --monthly 95.00 --payment "Electronic check" --paperless Yes
  churnrisk predict --input customer.json --format json`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "", "JSON file with one customer record")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", "cli", "output format (cli, json)")

	predictCmd.Flags().StringVar(&flagCustomerID, "customer", "", "customer identifier (audit only)")
	predictCmd.Flags().StringVar(&flagContract, "contract", "Month-to-month", "contract type")
	predictCmd.Flags().StringVar(&flagInternet, "internet", "Fiber optic", "internet service")
	predictCmd.Flags().IntVar(&flagTenure, "tenure", 12, "tenure in months (0-72)")
	predictCmd.Flags().StringVar(&flagMonthly, "monthly", "70.00", "monthly charges")
	predictCmd.Flags().StringVar(&flagTotal, "total", "", "total charges (default tenure * monthly)")
	predictCmd.Flags().StringVar(&flagPayment, "payment", "Electronic check", "payment method")
	predictCmd.Flags().StringVar(&flagPaperless, "paperless", "Yes", "paperless billing (Yes/No)")
	predictCmd.Flags().StringVar(&flagOnlineSecurity, "online-security", "", "online security (Yes/No)")
	predictCmd.Flags().StringVar(&flagTechSupport, "tech-support", "", "tech support (Yes/No)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	rec, err := buildRecord()
	if err != nil {
		return err
	}

	engine, err := loadEngine()
	if err != nil {
		return err
	}

	prediction, flags, err := engine.ScoreWithFlags(rec)
	if err != nil {
		return err
	}

	formatter, err := output.New(predictFormat)
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, &output.Result{
		Record:     rec,
		Prediction: prediction,
		RiskFlags:  flags,
	})
}

func buildRecord() (*types.RawAttributeRecord, error) {
	if predictInput != "" {
		data, err := os.ReadFile(predictInput)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		var rec types.RawAttributeRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse input file: %w", err)
		}
		rec.ApplyDefaults()
		return &rec, nil
	}

	monthly, err := parseCurrency("monthly", flagMonthly)
	if err != nil {
		return nil, err
	}

	rec := &types.RawAttributeRecord{
		CustomerID:       flagCustomerID,
		Contract:         flagContract,
		InternetService:  flagInternet,
		Tenure:           flagTenure,
		MonthlyCharges:   monthly,
		PaymentMethod:    flagPayment,
		PaperlessBilling: flagPaperless,
		OnlineSecurity:   flagOnlineSecurity,
		TechSupport:      flagTechSupport,
	}
	if flagTotal != "" {
		total, err := parseCurrency("total", flagTotal)
		if err != nil {
			return nil, err
		}
		rec.TotalCharges = total
	}
	rec.ApplyDefaults()
	return rec, nil
}

// parseCurrency parses a currency flag exactly, rejecting junk before it
// reaches the pipeline as a silent zero.
func parseCurrency(flag, value string) (float64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for --%s: expected a currency amount", value, flag)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid value %q for --%s: must not be negative", value, flag)
	}
	return d.InexactFloat64(), nil
}
