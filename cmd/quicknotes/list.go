package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/pkg/core"
)

// positioned pairs a note with its index in the full list.
type positioned struct {
	Position int `json:"position"`
	core.Note
}

func withPositions(repo *core.Repository, notes []core.Note) []positioned {
	out := make([]positioned, 0, len(notes))
	for _, n := range notes {
		out = append(out, positioned{Position: repo.IndexOf(n.ID), Note: n})
	}
	return out
}

func printNotes(w io.Writer, notes []positioned, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	}
	for _, n := range notes {
		fmt.Fprintf(w, "%3d  %-40s [%s]\n", n.Position, n.Title, n.Tag)
	}
	return nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		listJSON  bool
		filterTag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			notes := repo.Notes()
			if filterTag != "" {
				if notes, err = repo.ByTag(filterTag); err != nil {
					return err
				}
			}
			return printNotes(cmd.OutOrStdout(), withPositions(repo, notes), listJSON)
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag (glob, e.g. 'Proj*')")
	return cmd
}
