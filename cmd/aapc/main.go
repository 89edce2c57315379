package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"omibyte.io/aap/builder"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger  *zap.Logger
	project builder.Project

	rootCmd = &cobra.Command{
		Use:   "aapc",
		Short: "Compiler and check runner for the AAP language",
		Long: `aapc interprets AAP programs, compiles them to Thumb assembly for Cortex-M
microcontrollers and runs the console checklist against the compiled routines.

Settings shared by the commands are read from aap.toml in the current directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			if logger, err = config.Build(); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}

			project, err = builder.LoadProject(configPath)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", builder.ProjectFile, "project file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(targetsCmd)
}

func execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
