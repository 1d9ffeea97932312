// Package habits holds the `habit` subcommands.
package habits

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/utils"
)

type HabitCmd struct {
	Add     AddCmd     `cmd:"" help:"Add a new habit."`
	List    ListCmd    `cmd:"" help:"List habits with this week's completions."`
	Rename  RenameCmd  `cmd:"" help:"Rename a habit."`
	Mark    MarkCmd    `cmd:"" help:"Toggle a habit's completion for a day."`
	Delete  DeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Reorder ReorderCmd `cmd:"" help:"Move a habit to a new position."`
	Streak  StreakCmd  `cmd:"" help:"Show a habit's current and longest streak."`
}

type AddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if existing, err := ctx.Tracker.FindHabit(ctx.UserID, c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", existing.Name)
	}
	h, err := ctx.Tracker.AddHabit(ctx.UserID, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s\n", h.Name)
	return nil
}

type ListCmd struct {
	Stats bool `help:"Show longest streak, total completions and age."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker.ListHabits(ctx.UserID)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	window := ctx.Tracker.Window()
	days := window.Days()
	width := 0
	for _, h := range habits {
		width = max(width, len([]rune(h.Name)))
	}

	header := fmt.Sprintf("  %-*s ", width, "")
	for _, d := range days {
		header += d.Format("Mon")[:2] + " "
	}
	fmt.Println(header + " streak")

	for i, h := range habits {
		var row strings.Builder
		fmt.Fprintf(&row, "%d.%-*s ", i+1, width, h.Name)
		for _, d := range days {
			switch {
			case h.IsCompleted(utils.FormatDate(d)):
				row.WriteString("✓  ")
			case d.After(window.Today):
				row.WriteString("   ")
			default:
				row.WriteString("·  ")
			}
		}
		fmt.Fprintf(&row, " %d", h.Streak)
		if c.Stats {
			fmt.Fprintf(&row, "  (longest %d, %s completions, added %s)",
				h.Longest, humanize.Comma(int64(len(h.CompletedDays))), humanize.Time(h.CreatedAt))
		}
		fmt.Println(row.String())
	}
	return nil
}

type RenameCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Name  string `arg:"" help:"New name."`
}

func (c *RenameCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.FindHabit(ctx.UserID, c.Habit)
	if err != nil {
		return err
	}
	renamed, err := ctx.Tracker.RenameHabit(ctx.UserID, h.ID, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Renamed habit %q to %q\n", h.Name, renamed.Name)
	return nil
}

type MarkCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.FindHabit(ctx.UserID, c.Habit)
	if err != nil {
		return err
	}
	day := c.Date
	if day == "" {
		day = ctx.Tracker.TodayString()
	}
	done, err := ctx.Tracker.ToggleCompletion(ctx.UserID, h.ID, day)
	if err != nil {
		return err
	}
	if done {
		fmt.Printf("Marked habit %q for %s\n", h.Name, day)
	} else {
		fmt.Printf("Unmarked habit %q for %s\n", h.Name, day)
	}
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.FindHabit(ctx.UserID, c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete habit %q and all %d completions?", h.Name, len(h.CompletedDays)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Tracker.DeleteHabit(ctx.UserID, h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type ReorderCmd struct {
	Habit    string `arg:"" help:"Habit name or ID."`
	Position int    `arg:"" help:"New position, starting at 1."`
}

func (c *ReorderCmd) Run(ctx *cli.Context) error {
	if c.Position < 1 {
		return fmt.Errorf("position must be at least 1")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.FindHabit(ctx.UserID, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.ReorderHabit(ctx.UserID, h.ID, c.Position-1); err != nil {
		return err
	}
	fmt.Printf("Moved habit %q to position %d\n", h.Name, c.Position)
	return nil
}

type StreakCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.FindHabit(ctx.UserID, c.Habit)
	if err != nil {
		return err
	}
	views, err := ctx.Tracker.ListHabits(ctx.UserID)
	if err != nil {
		return err
	}
	for _, v := range views {
		if v.ID == h.ID {
			fmt.Printf("%s: current streak %s, longest %s\n", v.Name, days(v.Streak), days(v.Longest))
			return nil
		}
	}
	return fmt.Errorf("habit %q disappeared while reading", h.Name)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(n)) + " days"
}
