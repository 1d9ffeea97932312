package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	return store, func() { store.Close() }
}

func intPtr(i int) *int { return &i }

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load on a missing database should fail")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	st, err := reopened.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("schema not up to date after Init: %+v", st)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", reopened.GetConfigPath(), path)
	}
}

func TestHabitLifecycle(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	h := models.Habit{ID: "h1", UserID: "u1", Name: "Read", CreatedAt: created}
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	got, err := store.GetHabit("u1", "h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Read" || !got.CreatedAt.Equal(created) || len(got.CompletedDays) != 0 || got.Order != nil {
		t.Errorf("GetHabit() = %+v", got)
	}

	if _, err := store.GetHabit("someone-else", "h1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetHabit for another user = %v, want ErrNotFound", err)
	}

	got.Name = "Read 20 pages"
	got.Order = intPtr(3)
	if err := store.UpdateHabit(got); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, _ = store.GetHabit("u1", "h1")
	if got.Name != "Read 20 pages" || got.Order == nil || *got.Order != 3 {
		t.Errorf("after update = %+v", got)
	}

	if err := store.UpdateHabit(models.Habit{ID: "nope", UserID: "u1", Name: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdateHabit(missing) = %v, want ErrNotFound", err)
	}

	if err := store.DeleteHabit("u1", "h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if err := store.DeleteHabit("u1", "h1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second DeleteHabit = %v, want ErrNotFound", err)
	}
}

func TestSetCompletion(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	if err := store.AddHabit(models.Habit{ID: "h1", UserID: "u1", Name: "Walk"}); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	for _, day := range []string{"2024-03-10", "2024-03-08", "2024-03-10"} {
		if err := store.SetCompletion("u1", "h1", day, true); err != nil {
			t.Fatalf("SetCompletion(%s) failed: %v", day, err)
		}
	}
	h, _ := store.GetHabit("u1", "h1")
	if len(h.CompletedDays) != 2 || h.CompletedDays[0] != "2024-03-08" || h.CompletedDays[1] != "2024-03-10" {
		t.Errorf("CompletedDays = %v, want [2024-03-08 2024-03-10]", h.CompletedDays)
	}

	if err := store.SetCompletion("u1", "h1", "2024-03-10", false); err != nil {
		t.Fatalf("SetCompletion(false) failed: %v", err)
	}
	h, _ = store.GetHabit("u1", "h1")
	if len(h.CompletedDays) != 1 {
		t.Errorf("CompletedDays = %v, want one day", h.CompletedDays)
	}

	if err := store.SetCompletion("u2", "h1", "2024-03-11", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetCompletion for another user = %v, want ErrNotFound", err)
	}
}

func TestGetHabitsOrderAndScope(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		{ID: "late", UserID: "u1", Name: "Late", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "early", UserID: "u1", Name: "Early", CreatedAt: base},
		{ID: "pinned-first", UserID: "u1", Name: "First", Order: intPtr(0), CreatedAt: base.Add(3 * time.Hour)},
		{ID: "other", UserID: "u2", Name: "Other", CreatedAt: base},
	}
	for _, h := range habits {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit(%s) failed: %v", h.ID, err)
		}
	}
	if err := store.SetCompletion("u1", "early", "2024-01-02", true); err != nil {
		t.Fatalf("SetCompletion failed: %v", err)
	}

	got, err := store.GetHabits("u1")
	if err != nil {
		t.Fatalf("GetHabits failed: %v", err)
	}
	want := []string{"pinned-first", "early", "late"}
	if len(got) != len(want) {
		t.Fatalf("GetHabits returned %d habits, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if !got[1].IsCompleted("2024-01-02") {
		t.Error("completion not attached to habit")
	}
}

func TestReplaceHabits(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	if err := store.AddHabit(models.Habit{ID: "old", UserID: "u1", Name: "Old", CompletedDays: []string{"2024-03-01"}}); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if err := store.AddHabit(models.Habit{ID: "keep", UserID: "u2", Name: "Other user"}); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	replacement := []models.Habit{
		{ID: "new1", Name: "Stretch", CompletedDays: []string{"2024-03-09", "2024-03-10", "2024-03-10"}},
		{ID: "new2", Name: "Journal"},
	}
	if err := store.ReplaceHabits("u1", replacement); err != nil {
		t.Fatalf("ReplaceHabits failed: %v", err)
	}

	got, _ := store.GetHabits("u1")
	if len(got) != 2 {
		t.Fatalf("got %d habits after replace, want 2", len(got))
	}
	if _, err := store.GetHabit("u1", "old"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old habit still present: %v", err)
	}
	stretch, _ := store.GetHabit("u1", "new1")
	if len(stretch.CompletedDays) != 2 {
		t.Errorf("duplicate completions should collapse, got %v", stretch.CompletedDays)
	}
	if others, _ := store.GetHabits("u2"); len(others) != 1 {
		t.Error("ReplaceHabits must not touch other users")
	}
}

func TestNotes(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	first := models.Note{ID: "n1", UserID: "u1", Text: "first", Date: "2024-03-09", CreatedAt: base}
	second := models.Note{ID: "n2", UserID: "u1", Text: "[] todo", Date: "2024-03-10", CreatedAt: base.Add(time.Millisecond)}
	for _, n := range []models.Note{first, second} {
		if err := store.AddNote(n); err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}
	}

	notes, err := store.GetNotes("u1")
	if err != nil {
		t.Fatalf("GetNotes failed: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "n2" || notes[1].ID != "n1" {
		t.Fatalf("GetNotes order = %v, want newest first", notes)
	}

	n, err := store.GetNote("u1", "n1")
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	n.Pinned = true
	n.Text = "edited"
	if err := store.UpdateNote(n); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	n, _ = store.GetNote("u1", "n1")
	if !n.Pinned || n.Text != "edited" {
		t.Errorf("after update = %+v", n)
	}

	if _, err := store.GetNote("u2", "n1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetNote for another user = %v, want ErrNotFound", err)
	}
	if err := store.DeleteNote("u1", "n1"); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if err := store.DeleteNote("u1", "n1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second DeleteNote = %v, want ErrNotFound", err)
	}
}

func TestUsersAndSessions(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	u := models.User{ID: "google-123", Email: "a@example.com", Name: "A"}
	if err := store.UpsertUser(u); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	u.Name = "Renamed"
	if err := store.UpsertUser(u); err != nil {
		t.Fatalf("second UpsertUser failed: %v", err)
	}
	got, err := store.GetUser("google-123")
	if err != nil || got.Name != "Renamed" {
		t.Fatalf("GetUser() = %+v, %v", got, err)
	}

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	live := models.Session{Token: "live", UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := models.Session{Token: "stale", UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []models.Session{live, stale} {
		if err := store.AddSession(s); err != nil {
			t.Fatalf("AddSession failed: %v", err)
		}
	}

	sess, err := store.GetSession("live")
	if err != nil || sess.UserID != u.ID || !sess.ExpiresAt.Equal(live.ExpiresAt) {
		t.Fatalf("GetSession() = %+v, %v", sess, err)
	}

	n, err := store.DeleteExpiredSessions(now)
	if err != nil || n != 1 {
		t.Errorf("DeleteExpiredSessions = (%d, %v), want (1, nil)", n, err)
	}
	if _, err := store.GetSession("stale"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expired session still present: %v", err)
	}
	if err := store.DeleteSession("live"); err != nil {
		t.Errorf("DeleteSession failed: %v", err)
	}
}
