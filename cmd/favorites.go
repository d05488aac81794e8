package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/journal"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favourites"},
	Short:   "List favorite entries",
	Args:    cobra.NoArgs,
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

		ids, err := e.favorites().List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}
		for _, id := range ids {
			entry, ok, err := st.FetchByUUID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("%-36s  (no stored record)\n", id)
				continue
			}
			fmt.Printf("%-36s  %s\n", id, truncate(entry.Question, 60))
		}
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <uuid>",
	Short: "Add an entry to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		st, err := e.openStore()
		if err != nil {
			return err
		}

		if _, ok, err := st.FetchByUUID(cmd.Context(), id); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("no entry with uuid %s", id)
		}
		err = e.favorites().Add(id)
		if errors.Is(err, journal.ErrAlreadyFavorite) {
			fmt.Println("Already a favorite.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Added to favorites.")
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <uuid>",
	Short: "Remove an entry from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.favorites().Remove(args[0]); err != nil {
			return err
		}
		fmt.Println("Removed from favorites.")
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
}
