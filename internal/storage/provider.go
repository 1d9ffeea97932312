// Package storage defines the persistence contract shared by the SQLite and
// PostgreSQL backends.
package storage

import (
	"time"

	"github.com/julianstephens/habitlog/internal/models"
)

// Provider is implemented by every storage backend. Lookups that find nothing,
// and updates or deletes that affect no row, return errors.ErrNotFound.
// Every habit and note method is scoped to the owning user.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	UpsertUser(models.User) error
	GetUser(id string) (models.User, error)

	// Sessions
	AddSession(models.Session) error
	GetSession(token string) (models.Session, error)
	DeleteSession(token string) error
	DeleteExpiredSessions(now time.Time) (int64, error)

	// Habits. Returned habits carry their completion days in ascending order.
	AddHabit(models.Habit) error
	GetHabit(userID, id string) (models.Habit, error)
	GetHabits(userID string) ([]models.Habit, error)
	// UpdateHabit writes name and display order; completions are untouched.
	UpdateHabit(models.Habit) error
	DeleteHabit(userID, id string) error
	// SetCompletion adds or removes day from the habit's completion set.
	// Adding a day that is already present is a no-op.
	SetCompletion(userID, habitID, day string, done bool) error
	// ReplaceHabits makes habits the user's complete habit list in one transaction,
	// completions included.
	ReplaceHabits(userID string, habits []models.Habit) error

	// Notes. GetNotes returns newest first.
	AddNote(models.Note) error
	GetNote(userID, id string) (models.Note, error)
	GetNotes(userID string) ([]models.Note, error)
	UpdateNote(models.Note) error
	DeleteNote(userID, id string) error

	// Utils
	GetConfigPath() string
}
