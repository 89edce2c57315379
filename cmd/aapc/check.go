package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"omibyte.io/aap/checklist"
	"omibyte.io/aap/console"
	"omibyte.io/aap/interp"
	"omibyte.io/aap/native"
)

const nativeLibrary = "native"

var (
	checkOpts = struct {
		variant int
		library string
		delay   time.Duration
		console string
		hold    bool
	}{}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Run the console checklist",
		Long: `Run the console checklist against a library of routines: the built-in Go
implementations, or the functions of an AAP source file.

Flags that are not given fall back to the [check] section of the project file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := project.Check

			variant := checkOpts.variant
			if !cmd.Flags().Changed("variant") && cfg.Variant != 0 {
				variant = cfg.Variant
			}
			list, err := checklist.Variant(variant)
			if err != nil {
				return err
			}

			delay := checkOpts.delay
			if !cmd.Flags().Changed("delay") {
				if delay, err = cfg.ParseDelay(checkOpts.delay); err != nil {
					return err
				}
			}

			library := checkOpts.library
			if !cmd.Flags().Changed("library") && cfg.Library != "" {
				library = cfg.Library
				if library != nativeLibrary {
					library = project.Resolve(library)
				}
			}
			lib, err := loadLibrary(cmd.Context(), library)
			if err != nil {
				return err
			}

			consolePath := checkOpts.console
			if !cmd.Flags().Changed("console") && cfg.Console != "" {
				consolePath = project.Resolve(cfg.Console)
			}
			out, err := openConsole(cmd, consolePath)
			if err != nil {
				return err
			}
			defer out.Close()

			logger.Debug("running checklist",
				zap.Int("variant", variant),
				zap.String("library", library),
				zap.Duration("delay", delay))

			options := checklist.DefaultOptions(out)
			options.Delay = delay
			options.Hold = checkOpts.hold
			options.Logger = logger

			_, err = checklist.NewRunner(options).Run(cmd.Context(), list, lib)
			return err
		},
	}
)

func loadLibrary(ctx context.Context, library string) (checklist.Library, error) {
	if library == nativeLibrary {
		return native.Library(), nil
	}
	return interp.LoadLibrary(ctx, library, interp.Options{Logger: logger})
}

func openConsole(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return console.NopCloser(cmd.OutOrStdout()), nil
	}
	return console.Open(path)
}

func init() {
	checkCmd.Flags().IntVar(&checkOpts.variant, "variant", 1, "checklist variant (1 or 2)")
	checkCmd.Flags().StringVar(&checkOpts.library, "library", nativeLibrary, `"native" or an .aap file providing the routines`)
	checkCmd.Flags().DurationVar(&checkOpts.delay, "delay", checklist.DefaultDelay, "wait before the first line")
	checkCmd.Flags().StringVar(&checkOpts.console, "console", "", "serial device or file to write to (default stdout)")
	checkCmd.Flags().BoolVar(&checkOpts.hold, "hold", false, "keep running after the last line until interrupted")
}
