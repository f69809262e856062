package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
	"github.com/aretw0/quicknotes/pkg/core"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and write the starter notes",
		Long: `Create the data directory (and, with --versioning, a git repository)
and write the starter notes and tags so they can be edited by hand.
Existing data is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := quicknotes.OpenStore(ctx, a.cfg.DataDir, append(a.options(), quicknotes.WithAutoInit(true))...)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			repo := core.NewRepository(store, core.WithRepositoryLogger(a.logger))
			defer repo.Close()
			repo.Initialize(ctx)

			// Writing back what was loaded materializes the defaults on first run.
			if err := store.SaveNotes(ctx, repo.Notes()); err != nil {
				return err
			}
			if err := store.SaveTags(ctx, repo.Tags()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized QuickNotes in %s (%d notes, %d tags)\n", a.cfg.DataDir, repo.Len(), len(repo.Tags()))
			return nil
		},
	}
}
