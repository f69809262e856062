package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
	"github.com/aretw0/quicknotes/internal/config"
	"github.com/aretw0/quicknotes/internal/validator"
	"github.com/aretw0/quicknotes/pkg/core"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfgFile string
	verbose bool

	cfg      *config.Config
	logger   *slog.Logger
	validate *validator.Validator
}

func newRootCmd() *cobra.Command {
	a := &app{validate: validator.New()}

	cmd := &cobra.Command{
		Use:   "quicknotes",
		Short: "Notes with tags, search and undo, kept in a local directory",
		Long: `QuickNotes keeps notes and tags in a local data directory as JSON or
YAML files (optionally under git) or in a SQLite database.

Positions shown by list and search index the full note list and are what
edit and rm expect.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default: ./quicknotes.yaml, $XDG_CONFIG_HOME/quicknotes, ~/.quicknotes)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("dir", "", "Data directory (default ~/.quicknotes)")
	flags.String("adapter", "", "Storage adapter: fs or sqlite")
	flags.String("format", "", "File format for the fs adapter: json or yaml")
	flags.Bool("read-only", false, "Open the data directory read-only")
	flags.Bool("versioning", false, "Commit every change with git (fs adapter)")

	cmd.AddCommand(
		newInitCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRmCmd(a),
		newTagsCmd(a),
		newThemeCmd(a),
		newWatchCmd(a),
		newStatusCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{
		ConfigFile: a.cfgFile,
		Flags:      cmd.Flags(),
		FlagKeys: map[string]string{
			"dir":     config.KeyDataDir,
			"config":  "",
			"verbose": "",
		},
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg, a.verbose)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// options translates configuration into factory options.
func (a *app) options() []quicknotes.Option {
	opts := []quicknotes.Option{
		quicknotes.WithLogger(a.logger),
		quicknotes.WithAdapter(a.cfg.Adapter),
		quicknotes.WithFormat(a.cfg.Format),
		quicknotes.WithReadOnly(a.cfg.ReadOnly),
		quicknotes.WithEventBuffer(a.cfg.EventBuffer),
	}
	if a.cfg.Versioning != nil {
		opts = append(opts, quicknotes.WithVersioning(*a.cfg.Versioning))
	}
	return opts
}

// open returns a loaded repository for the configured data directory.
func (a *app) open(ctx context.Context) (*core.Repository, error) {
	repo, err := quicknotes.New(ctx, a.cfg.DataDir, a.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.cfg.DataDir, err)
	}
	return repo, nil
}

func parsePosition(s string) (int, error) {
	pos, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return pos, nil
}
