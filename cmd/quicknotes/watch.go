package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/pkg/adapters/lifecycle"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		pattern   string
		maxEvents int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload and report whenever the data directory changes",
		Long: `Watch reports changes to the notes, tags and settings files made by
other processes (an editor, a sync tool, another quicknotes) and reloads
after each one. Only the fs adapter supports watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			events, err := repo.Watch(ctx, pattern)
			if err != nil {
				return fmt.Errorf("failed to watch: %w", err)
			}

			src := lifecycle.NewSource(events)
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", a.cfg.DataDir)

			seen := 0
			for e := range src.Events() {
				repo.Initialize(ctx)
				fmt.Fprintf(out, "%s: %d notes, %d tags\n", e, repo.Len(), len(repo.Tags()))

				seen++
				if maxEvents > 0 && seen >= maxEvents {
					stop()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "slots", "*", "Glob over slot names to watch (notes, tags, settings)")
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "Exit after this many events (0 = run until interrupted)")
	return cmd
}
