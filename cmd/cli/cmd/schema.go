// Package cmd - schema command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"churnrisk/core/schema"
)

var schemaJSON bool

// schemaCmd prints the versioned feature schema
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the feature schema the classifier expects",
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"version": schema.Version,
				"columns": schema.Columns,
			})
		}
		fmt.Printf("Schema %s (%d columns)\n", schema.Version, schema.Size())
		for i, col := range schema.Columns {
			fmt.Printf("  %2d  %s\n", i, col)
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "print as JSON")
}
