package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omibyte.io/aap/builder"
	"omibyte.io/aap/interp"
)

var (
	runOpts = struct {
		maxDepth int
	}{}

	runCmd = &cobra.Command{
		Use:   "run FILE",
		Short: "Interpret an AAP program",
		Long:  "Interpret an AAP program and print the value of every top-level statement.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := builder.LoadProgram(args[0])
			if err != nil {
				return err
			}

			in := interp.New(interp.Options{
				MaxDepth: runOpts.maxDepth,
				Logger:   logger,
			})

			values, err := in.Run(cmd.Context(), prog.File)
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return err
		},
	}
)

func init() {
	runCmd.Flags().IntVar(&runOpts.maxDepth, "max-depth", interp.DefaultMaxDepth, "maximum call depth")
}
