package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			for _, tag := range repo.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.validate.Tag(args[0])
			if err != nil {
				return err
			}

			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.AddTag(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tag added: %s\n", name)
			return nil
		},
	})
	return cmd
}
