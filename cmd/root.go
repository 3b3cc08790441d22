package main

import (
	"github.com/spf13/cobra"
)

var (
	mode    string
	dryRun  bool
	logFile string
	verbose bool
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unifile [directory]",
		Short: "Fix character encoding issues in file and directory names",
		Long: `unifile recursively renames files and directories whose names contain
invalid, control, or non-ASCII characters.

Modes:
  preserve   Keep valid UTF-8 names untouched; only replace control bytes
  ascii      Additionally transliterate names to pure ASCII
             (é -> e, ü -> ue, ß -> ss; characters with no ASCII form are dropped)

The tree is processed bottom-up, so children are renamed before their
parents. When two names clean to the same target, files get a "-N"
suffix and directories are merged. Nothing is ever overwritten.

Examples:
  # Preview what would change (recommended first step)
  unifile --dry-run /data/export

  # Fix invalid bytes, keep accents
  unifile /data/export

  # Full ASCII transliteration, with a log file
  unifile --mode ascii --log-file unifile.log /data/export

Safety:
  The tool will NEVER modify files outside the specified directory.
  Collisions are resolved by suffixing or merging, never by overwriting.`,
		Args: cobra.ExactArgs(1),
		RunE: runClean,
	}

	cmd.Flags().StringVar(&mode, "mode", "preserve", "Cleaning mode: preserve or ascii")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append log lines to this file in addition to console")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}
