package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var (
	categoryColor = color.New(color.FgCyan, color.Bold)
	doneColor     = color.New(color.FgGreen)
	mutedColor    = color.New(color.Faint)
	dueColor      = color.New(color.FgYellow)
)

func cmdNote() *cli.Command {
	return &cli.Command{
		Name:    "note",
		Aliases: []string{"n"},
		Usage:   "Capture and manage notes in the configured storage",
		Commands: []*cli.Command{
			cmdNoteAdd(),
			cmdNoteList(),
			cmdNoteShow(),
			cmdNoteDone(),
			cmdNoteRemove(),
		},
	}
}

// withNotes opens the use cases and loads notes before running fn
func withNotes(env *environment, fn func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		uc, closer, err := env.Configure(ctx)
		if err != nil {
			return err
		}
		defer closer()

		uc.Notes.Load(ctx)
		return fn(ctx, c, uc)
	}
}

func noteText(c *cli.Command) (string, error) {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", goerr.Wrap(usecase.ErrEmptyText, "note text is required")
	}
	return text, nil
}

func cmdNoteAdd() *cli.Command {
	var env environment
	var author string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "author",
			Aliases:     []string{"a"},
			Usage:       "Partner adding the note (defaults to the current user)",
			Destination: &author,
		},
	}

	return &cli.Command{
		Name:      "add",
		Usage:     "Classify and store a note",
		ArgsUsage: "<text>",
		Flags:     append(flags, env.Flags()...),
		Action: withNotes(&env, func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error {
			text, err := noteText(c)
			if err != nil {
				return err
			}
			note, err := uc.CaptureNote(ctx, text, author)
			if err != nil {
				return err
			}
			printNoteDetail(output, note)
			return nil
		}),
	}
}

func cmdNoteList() *cli.Command {
	var env environment
	var category string
	var query string
	var hideCompleted bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Only list notes of this category",
			Destination: &category,
		},
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Filter by text in summary or original note (requires --category)",
			Destination: &query,
		},
		&cli.BoolFlag{
			Name:        "hide-completed",
			Usage:       "Leave out completed notes",
			Destination: &hideCompleted,
		},
	}

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List notes, newest first",
		Flags:   append(flags, env.Flags()...),
		Action: withNotes(&env, func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error {
			var notes []*model.Note
			if category != "" {
				notes = uc.ViewCategory(category, model.NoteFilter{Query: query, ShowCompleted: !hideCompleted}).Notes
			} else {
				stored, _ := uc.Notes.Notes()
				for _, n := range stored {
					if !hideCompleted || !n.Completed {
						notes = append(notes, n)
					}
				}
			}

			if len(notes) == 0 {
				mutedColor.Fprintln(output, "No notes")
				return nil
			}
			for _, n := range notes {
				printNoteLine(output, n)
			}
			return nil
		}),
	}
}

func cmdNoteShow() *cli.Command {
	var env environment
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one note",
		ArgsUsage: "<id>",
		Flags:     env.Flags(),
		Action: withNotes(&env, func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error {
			note, err := resolveNote(uc, c.Args().First())
			if err != nil {
				return err
			}
			printNoteDetail(output, note)
			return nil
		}),
	}
}

func cmdNoteDone() *cli.Command {
	var env environment
	return &cli.Command{
		Name:      "done",
		Usage:     "Toggle completion of a note",
		ArgsUsage: "<id>",
		Flags:     env.Flags(),
		Action: withNotes(&env, func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error {
			note, err := resolveNote(uc, c.Args().First())
			if err != nil {
				return err
			}
			toggled := uc.Notes.ToggleCompletion(ctx, note.ID)
			if toggled == nil {
				return goerr.Wrap(usecase.ErrNoteNotFound, "note disappeared", goerr.V(model.NoteIDKey, note.ID))
			}
			printNoteLine(output, toggled)
			return nil
		}),
	}
}

func cmdNoteRemove() *cli.Command {
	var env environment
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a note",
		ArgsUsage: "<id>",
		Flags:     env.Flags(),
		Action: withNotes(&env, func(ctx context.Context, c *cli.Command, uc *usecase.UseCases) error {
			note, err := resolveNote(uc, c.Args().First())
			if err != nil {
				return err
			}
			uc.Notes.Delete(ctx, note.ID)
			mutedColor.Fprintf(output, "Deleted %s\n", note.ID)
			return nil
		}),
	}
}

// resolveNote finds a note by full ID or by a unique ID prefix
func resolveNote(uc *usecase.UseCases, arg string) (*model.Note, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, goerr.New("note ID is required")
	}
	if note := uc.Notes.GetByID(model.NoteID(arg)); note != nil {
		return note, nil
	}

	notes, _ := uc.Notes.Notes()
	var found *model.Note
	for _, n := range notes {
		if strings.HasPrefix(n.ID.String(), arg) {
			if found != nil {
				return nil, goerr.New("ambiguous note ID prefix", goerr.V(model.NoteIDKey, arg))
			}
			found = n
		}
	}
	if found == nil {
		return nil, goerr.Wrap(usecase.ErrNoteNotFound, "no such note", goerr.V(model.NoteIDKey, arg))
	}
	return found, nil
}

func shortID(id model.NoteID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func printNoteLine(w io.Writer, n *model.Note) {
	mark := "[ ]"
	if n.Completed {
		mark = doneColor.Sprint("[x]")
	}
	fmt.Fprintf(w, "%s %s %s %s", mark, mutedColor.Sprint(shortID(n.ID)), categoryColor.Sprintf("%-16s", n.Category), n.Summary)
	if n.DueDate != "" {
		fmt.Fprintf(w, " %s", dueColor.Sprintf("(due %s)", n.DueDate))
	}
	fmt.Fprintln(w)
}

func printNoteDetail(w io.Writer, n *model.Note) {
	printNoteLine(w, n)
	fmt.Fprintf(w, "    id:       %s\n", n.ID)
	fmt.Fprintf(w, "    original: %s\n", n.OriginalText)
	fmt.Fprintf(w, "    by:       %s at %s\n", n.AddedBy, n.CreatedAt.Local().Format("2006-01-02 15:04"))
	if n.Priority != "" {
		fmt.Fprintf(w, "    priority: %s\n", n.Priority)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(w, "    tags:     %s\n", strings.Join(n.Tags, ", "))
	}
	for _, item := range n.Items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}
