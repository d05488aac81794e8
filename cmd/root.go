package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/journal"
)

var rootCmd = &cobra.Command{
	Use:   "rappel",
	Short: "Flashcard and dictation trainer",
	Long:  "Rappel is a terminal flashcard and dictation trainer with fill-in-the-blank answers and media playback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, journal.ModeQuiz)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides RAPPEL_DB env var)")
	pf.String("data-dir", "", "Data directory (overrides RAPPEL_DATA_DIR env var)")
	pf.String("config", "", "Path to YAML config file (overrides RAPPEL_CONFIG env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	addSourceFlags(rootCmd)

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(reviseCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(versionCmd)
}
