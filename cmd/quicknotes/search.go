package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var searchJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find notes whose title, content or tag contains the query",
		Long:  `Search is case-insensitive. Multiple arguments are joined with spaces.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			hits := repo.Search(strings.Join(args, " "))
			if err := printNotes(cmd.OutOrStdout(), withPositions(repo, hits), searchJSON); err != nil {
				return err
			}
			if !searchJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Found: %d notes\n", len(hits))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	return cmd
}
