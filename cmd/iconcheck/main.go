package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabepsilva/icon-check/iconcheck"
	"github.com/gabepsilva/icon-check/iconcheck/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	noProgress bool
	jobs       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "iconcheck",
		Short: "A CLI tool that validates PNG icons keep a transparent background",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLogLevel(logger.LogLevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// check command
	checkCmd := &cobra.Command{
		Use:   "check <PNG>...",
		Short: "Fail unless every PNG contains at least one transparent pixel",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCheck,
	}
	checkCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar (progress is enabled by default)")
	checkCmd.Flags().IntVar(&jobs, "jobs", 0, "Number of assets checked in parallel (0 = number of CPUs)")

	// info command
	infoCmd := &cobra.Command{
		Use:   "info <PNG>",
		Short: "Show header metadata and chunk layout of a PNG",
		Args:  cobra.ExactArgs(1),
		Run:   runInfo,
	}

	rootCmd.AddCommand(checkCmd, infoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) {
	checker := iconcheck.NewChecker(iconcheck.NewFileSource())

	// Progress bar is enabled by default
	var progress iconcheck.ProgressCallback
	var bar *progressbar.ProgressBar
	if !noProgress {
		bar = progressbar.Default(int64(len(args)), "Checking icons")
		progress = func(done, total int) {
			bar.Set(done)
		}
	}

	results, stats, err := checker.CheckAll(context.Background(), args, jobs, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	var failures []string
	for _, result := range results {
		if msg := result.Failure(); msg != "" {
			failures = append(failures, msg)
		}
	}

	if len(failures) > 0 {
		fmt.Println("Icon transparency check failed:")
		for _, item := range failures {
			fmt.Printf("- %s\n", item)
		}
		os.Exit(1)
	}

	fmt.Printf("Icon transparency check passed for %d PNGs (%d bytes total).\n",
		stats.PassedAssets, stats.TotalBytes)
}

func runInfo(cmd *cobra.Command, args []string) {
	checker := iconcheck.NewChecker(iconcheck.NewFileSource())

	inspection, err := checker.Inspect(context.Background(), args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s:\n", inspection.Path)
	fmt.Printf("  digest:      %s\n", inspection.Digest)
	fmt.Printf("  size:        %d bytes\n", inspection.Size)
	fmt.Printf("  dimensions:  %dx%d\n", inspection.Header.Width, inspection.Header.Height)
	fmt.Printf("  bit depth:   %d\n", inspection.Header.BitDepth)
	fmt.Printf("  color type:  %s\n", inspection.Header.ColorType)
	fmt.Printf("  transparent: %v\n", inspection.HasTransparency)
	fmt.Println("  chunks:")
	for _, chunk := range inspection.Chunks {
		fmt.Printf("    %s (%d bytes)\n", chunk.Type, chunk.Size)
	}
}
