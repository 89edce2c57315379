package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"omibyte.io/aap/builder"
)

var (
	buildOpts = struct {
		output   string
		target   string
		exports  []string
		assemble bool
		comments bool
		watch    bool
	}{}

	buildCmd = &cobra.Command{
		Use:   "build [FILES]",
		Short: "Compile AAP sources to Thumb assembly",
		Long: `Compile AAP sources to Thumb assembly and optionally assemble them.

Without arguments the sources listed in the project file are built.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			options := project.Options()
			if len(args) > 0 {
				options.Sources = args
				options.Output = ""
			}
			if cmd.Flags().Changed("output") {
				options.Output = buildOpts.output
			}
			if cmd.Flags().Changed("target") {
				options.Target = buildOpts.target
			}
			if cmd.Flags().Changed("export") {
				options.Exports = buildOpts.exports
			}
			options.Assemble = buildOpts.assemble
			options.Comments = buildOpts.comments
			options.Environment = builder.Environment()
			options.Logger = logger

			if buildOpts.watch {
				return builder.Watch(cmd.Context(), options, func(result builder.Result, err error) {
					if err != nil {
						color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), err)
						return
					}
					printOutputs(cmd, result)
				})
			}

			result, err := builder.Build(cmd.Context(), options)
			if err != nil {
				return err
			}
			printOutputs(cmd, result)
			return nil
		},
	}
)

func printOutputs(cmd *cobra.Command, result builder.Result) {
	for _, out := range result.Outputs {
		logger.Debug("exported symbols", zap.String("source", out.Source), zap.Strings("symbols", out.Symbols))
		if out.Object != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s, %s\n", out.Source, out.Assembly, out.Object)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", out.Source, out.Assembly)
		}
	}
}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.output, "output", "o", "", "output file, or directory for several sources")
	buildCmd.Flags().StringVar(&buildOpts.target, "target", "", "target cpu or chip")
	buildCmd.Flags().StringSliceVar(&buildOpts.exports, "export", nil, "glob patterns of exported functions")
	buildCmd.Flags().BoolVar(&buildOpts.assemble, "assemble", false, "assemble the output into an object file")
	buildCmd.Flags().BoolVar(&buildOpts.comments, "comments", false, "annotate the assembly with source positions")
	buildCmd.Flags().BoolVarP(&buildOpts.watch, "watch", "w", false, "rebuild when a source changes")
}
