// Package cmd - batch command
package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"churnrisk/core/types"
)

var batchFormat string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Score a file of customer records",
	Long: `Score every record in a CSV or JSON file. Records are scored
independently, as a loop over the single-record pipeline.

CSV files need a header row using the schema field names (gender, tenure,
MonthlyCharges, ...). JSON files hold an array of records.

Examples:
  churnrisk batch customers.csv
  churnrisk batch --format json customers.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "cli", "output format (cli, json)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	recs, err := loadRecords(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	engine, err := loadEngine()
	if err != nil {
		return err
	}

	predictions, err := engine.ScoreBatch(recs)
	if err != nil {
		return err
	}

	if batchFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(predictions)
	}

	fmt.Printf("Scored %d records (threshold %.2f)\n\n", len(predictions), engine.Threshold())
	fmt.Printf("%-20s %12s %8s %8s\n", "CUSTOMER", "PROBABILITY", "CHURN", "TIER")
	for i, p := range predictions {
		id := p.CustomerID
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		churn := "no"
		if p.Decision {
			churn = "yes"
		}
		fmt.Printf("%-20s %11.1f%% %8s %8s\n", id, p.Probability*100, churn, p.RiskTier)
	}
	return nil
}

func loadRecords(path string) ([]*types.RawAttributeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONRecords(f)
	case ".csv":
		return loadCSVRecords(f)
	default:
		return nil, fmt.Errorf("unsupported records file type: %s (expected .csv or .json)", path)
	}
}

func loadJSONRecords(r io.Reader) ([]*types.RawAttributeRecord, error) {
	var raw []types.RawAttributeRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}
	recs := make([]*types.RawAttributeRecord, len(raw))
	for i := range raw {
		raw[i].ApplyDefaults()
		recs[i] = &raw[i]
	}
	return recs, nil
}

func loadCSVRecords(r io.Reader) ([]*types.RawAttributeRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var recs []*types.RawAttributeRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		rec, err := recordFromRow(col, row)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func recordFromRow(col map[string]int, row []string) (*types.RawAttributeRecord, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	rec := &types.RawAttributeRecord{
		CustomerID:       get("customer_id"),
		Gender:           get("gender"),
		Partner:          get("Partner"),
		Dependents:       get("Dependents"),
		PhoneService:     get("PhoneService"),
		MultipleLines:    get("MultipleLines"),
		InternetService:  get("InternetService"),
		OnlineSecurity:   get("OnlineSecurity"),
		OnlineBackup:     get("OnlineBackup"),
		DeviceProtection: get("DeviceProtection"),
		TechSupport:      get("TechSupport"),
		StreamingTV:      get("StreamingTV"),
		StreamingMovies:  get("StreamingMovies"),
		Contract:         get("Contract"),
		PaperlessBilling: get("PaperlessBilling"),
		PaymentMethod:    get("PaymentMethod"),
	}

	if v := get("SeniorCitizen"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SeniorCitizen %q: expected 0 or 1", v)
		}
		rec.SeniorCitizen = n
	}
	if v := get("tenure"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid tenure %q: expected integer months", v)
		}
		rec.Tenure = n
	}
	if v := get("MonthlyCharges"); v != "" {
		amount, err := parseCurrency("MonthlyCharges", v)
		if err != nil {
			return nil, err
		}
		rec.MonthlyCharges = amount
	}
	if v := get("TotalCharges"); v != "" {
		amount, err := parseCurrency("TotalCharges", v)
		if err != nil {
			return nil, err
		}
		rec.TotalCharges = amount
	}

	rec.ApplyDefaults()
	return rec, nil
}
