package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/internal/validator"
	"github.com/aretw0/quicknotes/pkg/core"
)

const shellHelp = `Commands:
  list                               show the displayed notes
  search <query>                     filter the displayed notes (empty query clears)
  add <title> | <content> [| <tag>]  add a note
  edit <pos> <title> | <content> [| <tag>]
                                     replace a note
  rm <pos>                           delete a note
  undo                               restore the last deleted note
  tags                               list tags
  tag <name>                         add a tag
  theme [light|dark]                 show or set the theme
  reload                             re-read the data directory
  help                               show this help
  quit                               leave the shell`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with search state and undo",
		Long: `Shell keeps one repository open so the active search and the last
deleted note survive between commands. Type 'help' for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			sh := &shell{repo: repo, validate: a.validate, out: cmd.OutOrStdout()}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// shell is a line-oriented front end over a single Repository.
type shell struct {
	repo     *core.Repository
	validate *validator.Validator
	out      io.Writer
}

var errQuit = errors.New("quit")

func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(s.out, "%d notes. Type 'help' for commands.\n", s.repo.Len())
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit":
		return errQuit
	case "list", "ls":
		s.print(s.repo.Displayed())
	case "search":
		hits := s.repo.Search(rest)
		s.print(hits)
		fmt.Fprintf(s.out, "Found: %d notes\n", len(hits))
	case "add":
		note, err := s.parseNote(rest)
		if err != nil {
			return err
		}
		pos, err := s.repo.Add(ctx, note)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note saved at position %d\n", pos)
	case "edit":
		posArg, fields, _ := strings.Cut(rest, " ")
		pos, err := parsePosition(posArg)
		if err != nil {
			return err
		}
		note, err := s.parseNote(fields)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, pos, note); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note %d updated\n", pos)
	case "rm", "delete":
		pos, err := parsePosition(rest)
		if err != nil {
			return err
		}
		removed, err := s.repo.Delete(ctx, pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note deleted: %s (type 'undo' to restore)\n", removed.Title)
	case "undo":
		pos, err := s.repo.Undo(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note restored at position %d\n", pos)
	case "tags":
		fmt.Fprintln(s.out, strings.Join(s.repo.Tags(), ", "))
	case "tag":
		tag, err := s.validate.Tag(rest)
		if err != nil {
			return err
		}
		if err := s.repo.AddTag(ctx, tag); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Tag added: %s\n", tag)
	case "theme":
		return s.theme(ctx, rest)
	case "reload":
		s.repo.Initialize(ctx)
		fmt.Fprintf(s.out, "%d notes\n", s.repo.Len())
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return nil
}

func (s *shell) theme(ctx context.Context, arg string) error {
	if arg == "" {
		theme, err := s.repo.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, theme)
		return nil
	}
	theme, err := s.validate.Theme(arg)
	if err != nil {
		return err
	}
	if err := s.repo.SetTheme(ctx, theme); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Theme set to %s\n", theme)
	return nil
}

// parseNote reads "title | content [| tag]".
func (s *shell) parseNote(fields string) (core.Note, error) {
	parts := strings.SplitN(fields, "|", 3)
	in := validator.NoteInput{Title: parts[0]}
	if len(parts) > 1 {
		in.Content = parts[1]
	}
	if len(parts) > 2 {
		in.Tag = parts[2]
	}
	return s.validate.Note(in)
}

func (s *shell) print(notes []core.Note) {
	for _, n := range notes {
		fmt.Fprintf(s.out, "%3d  %-40s [%s]\n", s.repo.IndexOf(n.ID), n.Title, n.Tag)
	}
}
