package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <position>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Long:    `Delete a note. Undo is only available inside 'quicknotes shell'.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			removed, err := repo.Delete(cmd.Context(), pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", removed.Title)
			return nil
		},
	}
}
