package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		st, err := e.openStore()
		if err != nil {
			return err
		}

		count, err := st.Count(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := e.usageStats().Load()
		if err != nil {
			return err
		}
		favs, err := e.favorites().List()
		if err != nil {
			return err
		}

		fmt.Printf("Entries:       %d\n", count)
		fmt.Printf("Favorites:     %d\n", len(favs))
		fmt.Printf("Quizzes:       %d\n", stats.RetrievalCount)
		fmt.Printf("Reviews:       %d\n", stats.ReviewCount)
		fmt.Printf("Answers:       %d correct of %d", stats.CorrectCount, stats.AnsweredCount)
		if stats.AnsweredCount > 0 {
			fmt.Printf(" (%.0f%%)", stats.Accuracy()*100)
		}
		fmt.Println()
		fmt.Printf("Active days:   %d\n", len(stats.Dates))
		if n := len(stats.Dates); n > 0 {
			fmt.Printf("Last active:   %s\n", stats.Dates[n-1])
		}
		return nil
	},
}
