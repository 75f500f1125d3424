package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/onsetlabs/slate/internal/output"
	"github.com/onsetlabs/slate/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Screenplay continuity analysis with LLM-assisted breakdown",
	Long: `Slate analyzes screenplays for continuity: it parses scene headings,
sequences story days, tracks characters and their physical continuity
(injuries, wardrobe, grooming), and assembles a master context document
for production departments.

The analysis runs in five phases:
  - Scene summaries and character presence
  - Character identification and categorization
  - Continuity event extraction with progression timelines
  - Story day assignment
  - Character appearance profiles

Each phase degrades gracefully to pattern-based extraction when the
generative service is unavailable.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.slate/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "slate home directory (default: ~/.slate)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(versionCmd)
}
