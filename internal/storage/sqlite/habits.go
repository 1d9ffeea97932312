package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
)

const habitColumns = "id, user_id, name, display_order, created_at"

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var order sql.NullInt64
	var createdAt string
	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &order, &createdAt); err != nil {
		return models.Habit{}, err
	}
	if order.Valid {
		o := int(order.Int64)
		h.Order = &o
	}
	var err error
	h.CreatedAt, err = parseTime("created_at", createdAt)
	h.CompletedDays = []string{}
	return h, err
}

func nullOrder(order *int) sql.NullInt64 {
	if order == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*order), Valid: true}
}

func (s *Store) AddHabit(h models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := insertHabit(tx, h); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertHabit(tx *sql.Tx, h models.Habit) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	_, err := tx.Exec(`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Name, nullOrder(h.Order), formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
	}
	now := formatTime(time.Now())
	for _, day := range h.CompletedDays {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO habit_completions (habit_id, day, created_at) VALUES (?, ?, ?)`,
			h.ID, day, now); err != nil {
			return fmt.Errorf("failed to insert completion for habit %s: %w", h.ID, err)
		}
	}
	return nil
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Habit{}, err
	}

	rows, err := s.db.Query(`SELECT day FROM habit_completions WHERE habit_id = ? ORDER BY day`, id)
	if err != nil {
		return models.Habit{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return models.Habit{}, err
		}
		h.CompletedDays = append(h.CompletedDays, day)
	}
	return h, rows.Err()
}

func (s *Store) GetHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT `+habitColumns+` FROM habits WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	var habits []models.Habit
	index := make(map[string]int)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(`
		SELECT c.habit_id, c.day FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = ?
		ORDER BY c.day`, userID)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var habitID, day string
		if err := dayRows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		if i, ok := index[habitID]; ok {
			habits[i].CompletedDays = append(habits[i].CompletedDays, day)
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	models.SortHabits(habits)
	return habits, nil
}

func (s *Store) UpdateHabit(h models.Habit) error {
	res, err := s.db.Exec(`UPDATE habits SET name = ?, display_order = ? WHERE id = ? AND user_id = ?`,
		h.Name, nullOrder(h.Order), h.ID, h.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) DeleteHabit(userID, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habit_completions WHERE habit_id IN (SELECT id FROM habits WHERE id = ? AND user_id = ?)`, id, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	res, err := tx.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := requireAffected(res); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) SetCompletion(userID, habitID, day string, done bool) error {
	var owned int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM habits WHERE id = ? AND user_id = ?`, habitID, userID).Scan(&owned)
	if err != nil {
		return err
	}
	if owned == 0 {
		return apperr.ErrNotFound
	}

	if done {
		_, err = s.db.Exec(`INSERT OR IGNORE INTO habit_completions (habit_id, day, created_at) VALUES (?, ?, ?)`,
			habitID, day, formatTime(time.Now()))
	} else {
		_, err = s.db.Exec(`DELETE FROM habit_completions WHERE habit_id = ? AND day = ?`, habitID, day)
	}
	return err
}

func (s *Store) ReplaceHabits(userID string, habits []models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habit_completions WHERE habit_id IN (SELECT id FROM habits WHERE user_id = ?)`, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE user_id = ?`, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, h := range habits {
		h.UserID = userID
		if err := insertHabit(tx, h); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
