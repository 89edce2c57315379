package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"omibyte.io/aap/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the supported targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "CPU\tARCHITECTURE\tTRIPLE\tFEATURES\tCHIPS")
		for _, target := range targets.All() {
			features := target.FormatFeatureString()
			if features == "" {
				features = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				target.Cpu, target.Architecture, target.Triple, features, strings.Join(target.Chips, ", "))
		}
		return w.Flush()
	},
}
