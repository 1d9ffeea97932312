package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/utils"
)

type DoctorCmd struct{}

// warning is a check result that is reported but does not fail the run.
type warning struct{ error }

type check struct {
	name    string
	needsDB bool
	run     func(*cli.Context) error
}

// checks run in order; a failure of the first skips every check that needs the database.
var checks = []check{
	{"Database reachable", false, checkDBReachable},
	{"Schema version", true, checkSchemaVersion},
	{"Backups present", false, checkBackupsPresent},
	{"Habit data", true, checkHabits},
	{"Note data", true, checkNotes},
	{"Clock/timezone", false, checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var w warning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &w):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", w.error)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func warn(format string, args ...any) error {
	return warning{fmt.Errorf(format, args...)}
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	status, err := migrator.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !status.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitlog migrate')",
			status.Current, status.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		// PostgreSQL backups are left to the server's own tooling.
		return nil
	}
	backups, err := mgr.List()
	if err != nil {
		return warn("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return warn("no backups found, consider creating one with 'habitlog backup create'")
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.GetHabits(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}

	var problems []string
	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			problems = append(problems, fmt.Sprintf("duplicate habit ID %s", h.ID))
		}
		ids[h.ID] = true
		if strings.TrimSpace(h.Name) == "" {
			problems = append(problems, fmt.Sprintf("habit %s has an empty name", h.ID))
		}
		seen := make(map[string]bool, len(h.CompletedDays))
		for _, d := range h.CompletedDays {
			if !utils.ValidateDate(d) {
				problems = append(problems, fmt.Sprintf("habit %q has invalid completion day %q", h.Name, d))
			}
			if seen[d] {
				problems = append(problems, fmt.Sprintf("habit %q has duplicate completion day %s", h.Name, d))
			}
			seen[d] = true
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func checkNotes(ctx *cli.Context) error {
	notes, err := ctx.Store.GetNotes(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	var problems []string
	for _, n := range notes {
		if !utils.ValidateDate(n.Date) {
			problems = append(problems, fmt.Sprintf("note %s has invalid date %q", n.ID, n.Date))
		}
		if strings.TrimSpace(n.Text) == "" {
			problems = append(problems, fmt.Sprintf("note %s is empty", n.ID))
		}
		if n.UpdatedAt.Before(n.CreatedAt) {
			problems = append(problems, fmt.Sprintf("note %s was updated before it was created", n.ID))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	today := ctx.Tracker.Today()
	if d := today.Sub(utils.DateOf(now.UTC())); d > 48*time.Hour || d < -48*time.Hour {
		return fmt.Errorf("today resolves to %s, more than a day from UTC", utils.FormatDate(today))
	}
	return nil
}
