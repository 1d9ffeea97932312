package backups

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return cli.NewContext(store, "", time.UTC)
}

func habitNames(t *testing.T, ctx *cli.Context) []string {
	t.Helper()
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	habits, err := ctx.Tracker.ListHabits(ctx.UserID)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	var names []string
	for _, h := range habits {
		names = append(names, h.Name)
	}
	return names
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager failed: %v", err)
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := setupTestDB(t)
	if _, err := ctx.Tracker.AddHabit(ctx.UserID, "Read"); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mgr, _ := ctx.BackupManager()
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (%v)", len(backups), err)
	}

	if _, err := ctx.Tracker.AddHabit(ctx.UserID, "Run"); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if got := strings.Join(habitNames(t, ctx), ","); got != "Read" {
		t.Errorf("habits after restore = %q, want %q", got, "Read")
	}
}

func TestBackupRestore_Declined(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mgr, _ := ctx.BackupManager()
	backups, _ := mgr.List()
	if _, err := ctx.Tracker.AddHabit(ctx.UserID, "Read"); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	ctx.Stdin = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: backups[0].Path}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := habitNames(t, ctx); len(got) != 1 {
		t.Errorf("declined restore changed the database: %v", got)
	}
}

func TestBackupRestore_MissingFile(t *testing.T) {
	ctx := setupTestDB(t)
	err := (&BackupRestoreCmd{BackupFile: "habitlog-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://habitlog@localhost/habitlog"), "", time.UTC)
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for PostgreSQL store")
	}
}
