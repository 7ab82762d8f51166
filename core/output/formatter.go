// Package output provides output formatting for scoring results.
// This package produces human and machine-readable outputs; it performs no
// scoring logic.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"churnrisk/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal report
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Result is the renderable outcome for one scored customer.
type Result struct {
	// Record is the scored input
	Record *types.RawAttributeRecord `json:"record"`

	// Prediction is the scoring outcome
	Prediction *types.Prediction `json:"prediction"`

	// RiskFlags are the engineered risk indicators that fired for this
	// record, in schema order.
	RiskFlags []string `json:"risk_flags,omitempty"`
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch Format(format) {
	case FormatCLI:
		return &CLIFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// JSONFormatter renders machine-readable JSON.
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the result as indented JSON.
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// Terminal colors
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
)

// CLIFormatter renders a human-readable terminal report.
type CLIFormatter struct {
	// NoColor disables ANSI colors
	NoColor bool
}

// Format returns the format type
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the terminal report.
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	p := result.Prediction
	r := result.Record

	fmt.Fprintf(w, "%s\n", f.color(bold, "Churn Risk Assessment"))
	if p.CustomerID != "" {
		fmt.Fprintf(w, "  Customer:        %s\n", p.CustomerID)
	}
	fmt.Fprintf(w, "  Contract:        %s\n", r.Contract)
	fmt.Fprintf(w, "  Internet:        %s\n", r.InternetService)
	fmt.Fprintf(w, "  Tenure:          %d months\n", r.Tenure)
	fmt.Fprintf(w, "  Monthly charges: $%s\n", money(r.MonthlyCharges))
	fmt.Fprintf(w, "  Total charges:   $%s\n", money(r.TotalCharges))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Churn probability: %s\n",
		f.color(bold, fmt.Sprintf("%.1f%%", p.Probability*100)))
	fmt.Fprintf(w, "  Decision:          %s (threshold %.2f)\n",
		f.decisionLabel(p.Decision), p.Threshold)
	fmt.Fprintf(w, "  Risk tier:         %s\n", f.tierLabel(p.RiskTier))

	if len(result.RiskFlags) > 0 {
		fmt.Fprintf(w, "\n  Risk signals:\n")
		for _, flag := range result.RiskFlags {
			fmt.Fprintf(w, "    - %s\n", flag)
		}
	}
	return nil
}

func (f *CLIFormatter) color(c, text string) string {
	if f.NoColor {
		return text
	}
	return c + text + reset
}

func (f *CLIFormatter) decisionLabel(decision bool) string {
	if decision {
		return f.color(red, "LIKELY TO CHURN")
	}
	return f.color(green, "LIKELY TO STAY")
}

func (f *CLIFormatter) tierLabel(tier types.RiskTier) string {
	switch tier {
	case types.TierHigh:
		return f.color(red, string(tier))
	case types.TierMedium:
		return f.color(yellow, string(tier))
	default:
		return f.color(green, string(tier))
	}
}

// money formats a currency amount with exact two-place rounding.
func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}
