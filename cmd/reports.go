package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List entries reported as wrong during review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		reports, err := e.errorLog().List()
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("No reports.")
			return nil
		}

		st, err := e.openStore()
		if err != nil {
			return err
		}

		fmt.Printf("%-19s  %-36s  %s\n", "Reported", "UUID", "Question")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range reports {
			question := "(deleted)"
			if entry, ok, err := st.FetchByUUID(cmd.Context(), r.EntryID); err != nil {
				return err
			} else if ok {
				question = truncate(entry.Question, 40)
			}
			fmt.Printf("%-19s  %-36s  %s\n",
				r.ReportedAt.Local().Format(time.DateTime), r.EntryID, question)
		}
		fmt.Printf("\n%d reports\n", len(reports))
		return nil
	},
}

var reportsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.errorLog().Clear(); err != nil {
			return err
		}
		fmt.Println("Reports cleared.")
		return nil
	},
}

func init() {
	reportsCmd.AddCommand(reportsClearCmd)
}
