package tracker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/streak"
	"github.com/julianstephens/habitlog/internal/utils"
)

// HabitView is a habit with its streaks as of today.
type HabitView struct {
	models.Habit
	Streak  int `json:"streak"`
	Longest int `json:"longest"`
}

func newUUID() string {
	return uuid.New().String()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.ErrInvalidName
	}
	return name, nil
}

func cleanDay(day string) (string, error) {
	d, err := utils.ParseDate(strings.TrimSpace(day))
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidDate, day)
	}
	return utils.FormatDate(d), nil
}

// AddHabit creates a habit with no completions at the end of the list.
func (s *Service) AddHabit(userID, name string) (models.Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Habit{}, err
	}

	habits, err := s.store.GetHabits(userID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load habits: %w", err)
	}
	order := 0
	for _, h := range habits {
		if h.Order != nil && *h.Order >= order {
			order = *h.Order + 1
		}
	}
	if order < len(habits) {
		order = len(habits)
	}

	h := models.Habit{
		ID:            s.newID(),
		UserID:        userID,
		Name:          name,
		CompletedDays: []string{},
		Order:         &order,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Debug("Added habit", "user", userID, "id", h.ID, "name", h.Name)
	return h, nil
}

func (s *Service) GetHabit(userID, id string) (models.Habit, error) {
	return s.store.GetHabit(userID, id)
}

// FindHabit resolves ref as a habit ID, then as a case-insensitive name.
func (s *Service) FindHabit(userID, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if h, err := s.store.GetHabit(userID, ref); err == nil {
		return h, nil
	} else if !apperr.Is(err, apperr.ErrNotFound) {
		return models.Habit{}, err
	}

	habits, err := s.store.GetHabits(userID)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", ref, apperr.ErrNotFound)
}

func (s *Service) RenameHabit(userID, id, name string) (models.Habit, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Habit{}, err
	}
	h, err := s.store.GetHabit(userID, id)
	if err != nil {
		return models.Habit{}, err
	}
	h.Name = name
	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to rename habit: %w", err)
	}
	return h, nil
}

// ToggleCompletion flips day in the habit's completion set and returns whether
// the day is now completed.
func (s *Service) ToggleCompletion(userID, id, day string) (bool, error) {
	day, err := cleanDay(day)
	if err != nil {
		return false, err
	}
	h, err := s.store.GetHabit(userID, id)
	if err != nil {
		return false, err
	}
	done := !h.IsCompleted(day)
	if err := s.store.SetCompletion(userID, id, day, done); err != nil {
		return false, fmt.Errorf("failed to update completion: %w", err)
	}
	return done, nil
}

// SetCompletion marks day done or not done regardless of the current state.
func (s *Service) SetCompletion(userID, id, day string, done bool) error {
	day, err := cleanDay(day)
	if err != nil {
		return err
	}
	return s.store.SetCompletion(userID, id, day, done)
}

func (s *Service) DeleteHabit(userID, id string) error {
	if err := s.store.DeleteHabit(userID, id); err != nil {
		return err
	}
	logger.Debug("Deleted habit", "user", userID, "id", id)
	return nil
}

// ReorderHabit moves a habit to position (zero-based) and renumbers the rest
// so that display orders stay dense.
func (s *Service) ReorderHabit(userID, id string, position int) error {
	habits, err := s.store.GetHabits(userID)
	if err != nil {
		return err
	}
	from := -1
	for i, h := range habits {
		if h.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("habit %q: %w", id, apperr.ErrNotFound)
	}
	if position < 0 {
		position = 0
	}
	if position >= len(habits) {
		position = len(habits) - 1
	}

	moved := habits[from]
	rest := append(habits[:from:from], habits[from+1:]...)
	ordered := make([]models.Habit, 0, len(habits))
	ordered = append(ordered, rest[:position]...)
	ordered = append(ordered, moved)
	ordered = append(ordered, rest[position:]...)

	for i := range ordered {
		if ordered[i].Order != nil && *ordered[i].Order == i {
			continue
		}
		order := i
		ordered[i].Order = &order
		if err := s.store.UpdateHabit(ordered[i]); err != nil {
			return fmt.Errorf("failed to reorder habit %s: %w", ordered[i].ID, err)
		}
	}
	return nil
}

// ListHabits returns the user's habits in display order with streaks.
func (s *Service) ListHabits(userID string) ([]HabitView, error) {
	habits, err := s.store.GetHabits(userID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	views := make([]HabitView, len(habits))
	for i, h := range habits {
		views[i] = HabitView{
			Habit:   h,
			Streak:  streak.Current(h.CompletedDays, today),
			Longest: streak.Longest(h.CompletedDays),
		}
	}
	return views, nil
}

// ReplaceHabits saves habits as the user's complete list. Habits whose names
// are blank are dropped with a warning and malformed completion days are
// rejected. An ID the user does not already own is replaced with a fresh one,
// so a client cannot collide with another user's habits.
func (s *Service) ReplaceHabits(userID string, habits []models.Habit) ([]models.Habit, error) {
	existing, err := s.store.GetHabits(userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(existing))
	for _, h := range existing {
		owned[h.ID] = true
	}

	kept := make([]models.Habit, 0, len(habits))
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		name, err := cleanName(h.Name)
		if err != nil {
			logger.Warn("Skipping habit with empty name", "user", userID, "id", h.ID)
			continue
		}
		h.Name = name
		h.UserID = userID
		if !owned[h.ID] || seen[h.ID] {
			h.ID = s.newID()
		}
		seen[h.ID] = true
		if h.CreatedAt.IsZero() {
			h.CreatedAt = s.now().UTC()
		}

		days := make([]string, 0, len(h.CompletedDays))
		dup := make(map[string]bool, len(h.CompletedDays))
		for _, d := range h.CompletedDays {
			day, err := cleanDay(d)
			if err != nil {
				return nil, err
			}
			if !dup[day] {
				dup[day] = true
				days = append(days, day)
			}
		}
		h.CompletedDays = days
		kept = append(kept, h)
	}

	if err := s.store.ReplaceHabits(userID, kept); err != nil {
		return nil, fmt.Errorf("failed to save habits: %w", err)
	}
	return kept, nil
}
