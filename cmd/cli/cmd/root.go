// Package cmd provides the CLI commands for churnrisk.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"churnrisk/core/model"
	"churnrisk/core/scoring"
	"churnrisk/internal/config"
	"churnrisk/internal/logging"
)

var (
	cfgFile      string
	verbose      bool
	artifactsDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "churnrisk",
	Short: "Score customer churn risk",
	Long: `churnrisk scores customer accounts against a pre-trained churn
classifier, reproducing the exact feature transformation the model was
trained with.

Examples:
  churnrisk predict --contract "Month-to-month" --internet "Fiber optic" --tenure 3 --monthly 95.00 --payment "Electronic check" --paperless Yes
  churnrisk predict --input customer.json --format json
  churnrisk batch customers.csv`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.churnrisk.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&artifactsDir, "artifacts", "", "model artifacts directory (overrides config)")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadEngine loads the artifacts and builds the scoring engine. An
// incomplete or corrupt artifact set is fatal.
func loadEngine() (*scoring.Engine, error) {
	dir := config.Get().Artifacts.Dir
	if artifactsDir != "" {
		dir = artifactsDir
	}

	artifacts, err := model.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot serve predictions without artifacts: %w", err)
	}
	return scoring.NewEngine(artifacts)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("churnrisk version 0.1.0")
	},
}
