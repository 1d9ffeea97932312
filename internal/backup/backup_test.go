package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE test_data (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO test_data (id, name) VALUES (1, 'one'), (2, 'two')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want directory %s", path, mgr.Dir())
	}
	if !strings.HasPrefix(filepath.Base(path), "habitlog-") {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}
	if got := countRows(t, path); got != 2 {
		t.Errorf("backup has %d rows, want 2", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() = %v, want ErrNoDatabase", err)
	}
}

func TestUniqueNamesWithinSameSecond(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	stamp := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List returned %d backups, want 3", len(backups))
	}
	if !strings.HasSuffix(backups[0].Path, "-2.db") {
		t.Errorf("newest backup = %s, want the highest sequence first", backups[0].Path)
	}
}

func TestRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	mgr.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))
	mgr.keep = 3

	var last string
	for i := 0; i < 5; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		last = path
	}

	backups, _ := mgr.List()
	if len(backups) != 3 {
		t.Fatalf("kept %d backups, want 3", len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, name := range []string{"notes.txt", "habitlog-garbage.db", "other-20240101-000000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("List returned %d backups, want 1", len(backups))
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "x.db"))
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = (%v, %v), want empty", backups, err)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	bad := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(bad, []byte("this is not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bad); err == nil {
		t.Error("Restore should reject a corrupt file")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Restore should reject a missing file")
	}
}

func TestBackupRestoreWithStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitlog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddHabit(models.Habit{ID: "h1", UserID: "local", Name: "Read"}); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 10, 7, 0, 0, 0, time.Local))
	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteHabit("local", "h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	store.Close()

	previous, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if previous == "" {
		t.Error("Restore should back up the database it replaces")
	}

	reopened := sqlite.NewStore(dbPath)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	if _, err := reopened.GetHabit("local", "h1"); err != nil {
		t.Errorf("habit missing after restore: %v", err)
	}
}
