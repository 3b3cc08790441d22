package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hysticali/unifile/pkg/cleaner"
	"github.com/hysticali/unifile/pkg/logsink"
	"github.com/hysticali/unifile/pkg/rewriter"
)

var defaultSkipNames = []string{".DS_Store", "Thumbs.db"}

func runClean(_ *cobra.Command, args []string) error {
	parsedMode, err := cleaner.ParseMode(mode)
	if err != nil {
		return fmt.Errorf("invalid --mode value %q: %w", mode, err)
	}

	sink, err := logsink.New(logsink.Options{Console: true, FilePath: logFile})
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	printDryRunBanner()

	r, err := rewriter.New(args[0], rewriter.Options{
		Mode:      parsedMode,
		DryRun:    dryRun,
		Log:       sink,
		SkipNames: skipNames(),
	})
	if err != nil {
		if errors.Is(err, rewriter.ErrRootNotExist) {
			// A missing directory is reported, not fatal, so batch
			// invocations over many roots keep going.
			sink.Error("Error processing directory %s: %v", args[0], err)
			sink.Info("Processing completed.")
			return nil
		}
		return err
	}

	fmt.Printf("Root directory: %s\n", r.Root())
	fmt.Printf("Mode: %s\n", parsedMode)

	progress := startProgress("Working")
	result, err := r.Run()
	progress.Stop()
	if err != nil {
		return err
	}

	sink.Info("Processing completed.")

	if verbose || dryRun {
		fmt.Println()
		for _, op := range result.Operations {
			printOperation(op)
		}
	}

	fmt.Println()
	printSummary(
		fmt.Sprintf("Renamed:    %d", result.Renamed),
		fmt.Sprintf("Merged:     %d", result.Merged),
		fmt.Sprintf("Planned:    %d", result.Planned),
		fmt.Sprintf("Unchanged:  %d", result.Unchanged),
		fmt.Sprintf("Errors:     %d", result.Failed),
	)
	printDryRunHint()

	return nil
}

// skipNames returns the entry names the walk leaves untouched, including
// the active log file so the tool never renames its own output.
func skipNames() []string {
	names := append([]string(nil), defaultSkipNames...)
	if logFile != "" {
		names = append(names, filepath.Base(logFile))
	}
	return names
}

func printOperation(op rewriter.Operation) {
	switch op.State {
	case rewriter.StateFailed:
		fmt.Printf("ERROR: %s: %v\n", op.OldPath, op.Err)
	case rewriter.StateMerged:
		fmt.Printf("MERGE: %s\n", op.OldPath)
		fmt.Printf(" INTO: %s\n", op.NewPath)
	case rewriter.StatePlanned:
		fmt.Printf("PLAN: %s\n", op.OldPath)
		fmt.Printf("  TO: %s\n", op.NewPath)
	default:
		fmt.Printf("RENAME: %s\n", op.OldPath)
		fmt.Printf("    TO: %s\n", op.NewPath)
	}
}
