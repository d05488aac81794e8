package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/media"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entries (optionally within a date range)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		st, err := e.openStore()
		if err != nil {
			return err
		}

		recs, err := st.Records(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-40s  %-24s  %s\n",
			"UUID", "Date", "Question", "Answer", "Media")
		fmt.Println(strings.Repeat("─", 130))

		for _, r := range recs {
			clip := ""
			if r.MediaFile != "" {
				clip = r.MediaFile
				if r.StartMs != nil || r.EndMs != nil {
					clip += fmt.Sprintf(" [%s-%s]", media.FormatOptional(r.StartMs), media.FormatOptional(r.EndMs))
				}
			}
			fmt.Printf("%-36s  %-10s  %-40s  %-24s  %s\n",
				r.UUID, r.CreationDate, truncate(r.Question, 40), truncate(r.Response, 24), clip)
		}

		fmt.Printf("\n%d entries\n", len(recs))
		return nil
	},
}

func init() {
	listCmd.Flags().String("from", "", "Only entries created on or after this date (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "Only entries created on or before this date (YYYY-MM-DD)")
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
