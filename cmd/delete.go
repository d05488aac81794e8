package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Delete a stored entry",
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

		if err := st.Delete(cmd.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no entry with uuid %s", id)
			}
			return err
		}
		// A deleted entry is no longer a favorite.
		if err := e.favorites().Remove(id); err != nil {
			e.logger.Warn("remove favorite failed", "uuid", id, "err", err)
		}
		e.logger.Info("entry deleted", "uuid", id)
		fmt.Println("Deleted", id)
		return nil
	},
}
