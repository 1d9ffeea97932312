// Package notes holds the `note` subcommands.
package notes

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitlog/internal/cli"
	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/markup"
	"github.com/julianstephens/habitlog/internal/models"
	tuinotes "github.com/julianstephens/habitlog/internal/tui/components/notes"
)

const shortIDLen = 8

type NoteCmd struct {
	Add    AddCmd    `cmd:"" help:"Add a journal note."`
	List   ListCmd   `cmd:"" help:"List notes, pinned first."`
	Show   ShowCmd   `cmd:"" help:"Show a note with formatting."`
	Edit   EditCmd   `cmd:"" help:"Replace a note's text."`
	Delete DeleteCmd `cmd:"" help:"Delete a note."`
	Pin    PinCmd    `cmd:"" help:"Pin or unpin a note."`
	Check  CheckCmd  `cmd:"" help:"Check or uncheck a todo line in a note."`
	Search SearchCmd `cmd:"" help:"Fuzzy search note text."`
	Render RenderCmd `cmd:"" help:"Print a note as HTML."`
}

// resolve finds a note by full ID or unique ID prefix.
func resolve(ctx *cli.Context, ref string) (models.Note, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Note{}, fmt.Errorf("note ID is required")
	}
	n, err := ctx.Tracker.GetNote(ctx.UserID, ref)
	if err == nil {
		return n, nil
	}
	if !apperr.Is(err, apperr.ErrNotFound) {
		return models.Note{}, err
	}

	notes, err := ctx.Tracker.ListNotes(ctx.UserID)
	if err != nil {
		return models.Note{}, err
	}
	var matches []models.Note
	for _, n := range notes {
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return models.Note{}, fmt.Errorf("note %q: %w", ref, apperr.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Note{}, fmt.Errorf("note ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// summary is the first line of a note, cut to width runes.
func summary(text string, width int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return line
}

func printNote(n models.Note) {
	pin := " "
	if n.Pinned {
		pin = "*"
	}
	todos := ""
	if items := markup.Todos(n.Text); len(items) > 0 {
		done := 0
		for _, l := range items {
			if l.Checked {
				done++
			}
		}
		todos = fmt.Sprintf(" [%d/%d]", done, len(items))
	}
	fmt.Printf("%s %s  %s  %s%s  (%s)\n", pin, shortID(n.ID), n.Date, summary(n.Text, 60), todos, humanize.Time(n.UpdatedAt))
}

type AddCmd struct {
	Text string `arg:"" help:"Note text. Lines starting with '[] ' become todos."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := ctx.Tracker.AddNote(ctx.UserID, c.Text, c.Date)
	if err != nil {
		return err
	}
	fmt.Printf("Added note %s for %s\n", shortID(n.ID), n.Date)
	return nil
}

type ListCmd struct {
	All bool `help:"List every note in one list without grouping."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.All {
		notes, err := ctx.Tracker.ListNotes(ctx.UserID)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}
		for _, n := range notes {
			printNote(n)
		}
		return nil
	}

	pinned, regular, err := ctx.Tracker.SplitNotes(ctx.UserID)
	if err != nil {
		return err
	}
	if len(pinned) == 0 && len(regular) == 0 {
		fmt.Println("No notes found.")
		return nil
	}
	if len(pinned) > 0 {
		fmt.Println("Pinned:")
		for _, n := range pinned {
			printNote(n)
		}
		fmt.Println()
	}
	for _, n := range regular {
		printNote(n)
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Note ID or unique prefix."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	header := n.Date
	if n.Pinned {
		header += " (pinned)"
	}
	fmt.Println(header)
	fmt.Println(tuinotes.Render(n.Text))
	return nil
}

type EditCmd struct {
	ID   string `arg:"" help:"Note ID or unique prefix."`
	Text string `arg:"" help:"New note text."`
	Date string `help:"Move the note to this date (YYYY-MM-DD)." default:""`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	n, err = ctx.Tracker.EditNote(ctx.UserID, n.ID, c.Text, c.Date)
	if err != nil {
		return err
	}
	fmt.Printf("Updated note %s\n", shortID(n.ID))
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Note ID or unique prefix."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete note %q?", summary(n.Text, 40)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Tracker.DeleteNote(ctx.UserID, n.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted note %s\n", shortID(n.ID))
	return nil
}

type PinCmd struct {
	ID string `arg:"" help:"Note ID or unique prefix."`
}

func (c *PinCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	n, err = ctx.Tracker.TogglePin(ctx.UserID, n.ID)
	if err != nil {
		return err
	}
	if n.Pinned {
		fmt.Printf("Pinned note %s\n", shortID(n.ID))
	} else {
		fmt.Printf("Unpinned note %s\n", shortID(n.ID))
	}
	return nil
}

type CheckCmd struct {
	ID      string `arg:"" help:"Note ID or unique prefix."`
	Line    int    `arg:"" help:"Line number of the todo, starting at 1."`
	Uncheck bool   `help:"Clear the checkbox instead of checking it."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	if c.Line < 1 {
		return fmt.Errorf("line must be at least 1")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	lines := markup.Parse(n.Text)
	if c.Line > len(lines) || !lines[c.Line-1].IsTodo() {
		return fmt.Errorf("line %d of note %s is not a todo", c.Line, shortID(n.ID))
	}
	if _, err := ctx.Tracker.ToggleNoteCheckbox(ctx.UserID, n.ID, c.Line-1, !c.Uncheck); err != nil {
		return err
	}
	state := "Checked"
	if c.Uncheck {
		state = "Unchecked"
	}
	fmt.Printf("%s %q\n", state, lines[c.Line-1].Label)
	return nil
}

type SearchCmd struct {
	Query string `arg:"" help:"Text to fuzzy match."`
	Limit int    `help:"Maximum number of results." default:"10"`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	notes, err := ctx.Tracker.SearchNotes(ctx.UserID, c.Query)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println("No matching notes.")
		return nil
	}
	if c.Limit > 0 && len(notes) > c.Limit {
		notes = notes[:c.Limit]
	}
	for _, n := range notes {
		printNote(n)
	}
	return nil
}

type RenderCmd struct {
	ID string `arg:"" help:"Note ID or unique prefix, or '-' to read markup from stdin."`
}

func (c *RenderCmd) Run(ctx *cli.Context) error {
	if c.ID == "-" {
		text, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		fmt.Println(markup.Render(string(text)))
		return nil
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	n, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Println(ctx.Tracker.RenderNote(n))
	return nil
}
