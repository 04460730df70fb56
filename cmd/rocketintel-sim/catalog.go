package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	catalogPath string
	catalogJSON bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the rocket catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if catalogJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cat.All())
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tTHRUST (kN)\tPAYLOAD (kg)")
		for _, r := range cat.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.0f\n", r.ID, r.Name, r.Type, r.ThrustRating, r.Payload)
		}
		return tw.Flush()
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML (built-in catalog when empty)")
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the catalog as JSON")
}
