package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/internal/validator"
)

func newAddCmd(a *app) *cobra.Command {
	var in validator.NoteInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.validate.Note(in)
			if err != nil {
				return err
			}

			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			pos, err := repo.Add(cmd.Context(), note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note saved at position %d\n", pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Note title")
	cmd.Flags().StringVar(&in.Content, "content", "", "Note content")
	cmd.Flags().StringVar(&in.Tag, "tag", "", "Note tag (default \"No tag\")")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}
