package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/internal/validator"
	"github.com/aretw0/quicknotes/pkg/core"
)

func newEditCmd(a *app) *cobra.Command {
	var in validator.NoteInput

	cmd := &cobra.Command{
		Use:   "edit <position>",
		Short: "Replace the title, content or tag of a note",
		Long:  `Fields without a flag keep their current value.`,
		Args:  cobra.ExactArgs(1),
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

			notes := repo.Notes()
			if pos < 0 || pos >= len(notes) {
				return fmt.Errorf("%w: %d (have %d notes)", core.ErrOutOfRange, pos, len(notes))
			}
			current := notes[pos]

			flags := cmd.Flags()
			if !flags.Changed("title") {
				in.Title = current.Title
			}
			if !flags.Changed("content") {
				in.Content = current.Content
			}
			if !flags.Changed("tag") {
				in.Tag = current.Tag
			}

			note, err := a.validate.Note(in)
			if err != nil {
				return err
			}
			if err := repo.Update(cmd.Context(), pos, note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %d updated\n", pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "New title")
	cmd.Flags().StringVar(&in.Content, "content", "", "New content")
	cmd.Flags().StringVar(&in.Tag, "tag", "", "New tag")
	return cmd
}
