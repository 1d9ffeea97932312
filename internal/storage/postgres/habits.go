package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
)

const habitColumns = "id, user_id, name, display_order, created_at"

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var order sql.NullInt64
	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &order, &h.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	if order.Valid {
		o := int(order.Int64)
		h.Order = &o
	}
	h.CompletedDays = []string{}
	return h, nil
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
	_, err := tx.Exec(`INSERT INTO habits (`+habitColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.UserID, h.Name, nullOrder(h.Order), h.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
	}
	if len(h.CompletedDays) == 0 {
		return nil
	}
	_, err = tx.Exec(`
INSERT INTO habit_completions (habit_id, day, created_at)
SELECT $1, d, $3 FROM unnest($2::text[]) AS d
ON CONFLICT DO NOTHING`, h.ID, pq.Array(h.CompletedDays), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert completions for habit %s: %w", h.ID, err)
	}
	return nil
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`
SELECT `+habitColumns+`,
       COALESCE((SELECT array_agg(day ORDER BY day) FROM habit_completions WHERE habit_id = habits.id), '{}')
FROM habits WHERE id = $1 AND user_id = $2`, id, userID)

	var h models.Habit
	var order sql.NullInt64
	var days pq.StringArray
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &order, &h.CreatedAt, &days)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Habit{}, err
	}
	if order.Valid {
		o := int(order.Int64)
		h.Order = &o
	}
	h.CompletedDays = append([]string{}, days...)
	return h, nil
}

func (s *Store) GetHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT `+habitColumns+` FROM habits WHERE user_id = $1`, userID)
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
WHERE h.user_id = $1
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
	res, err := s.db.Exec(`UPDATE habits SET name = $1, display_order = $2 WHERE id = $3 AND user_id = $4`,
		h.Name, nullOrder(h.Order), h.ID, h.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res, apperr.ErrNotFound)
}

func (s *Store) DeleteHabit(userID, id string) error {
	// habit_completions rows go with the habit through ON DELETE CASCADE
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, apperr.ErrNotFound)
}

func (s *Store) SetCompletion(userID, habitID, day string, done bool) error {
	var res sql.Result
	var err error
	if done {
		res, err = s.db.Exec(`
INSERT INTO habit_completions (habit_id, day, created_at)
SELECT id, $3, $4 FROM habits WHERE id = $1 AND user_id = $2
ON CONFLICT DO NOTHING`, habitID, userID, day, time.Now().UTC())
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		// Zero rows means either a missing habit or an existing completion.
		return s.requireHabit(userID, habitID)
	}

	if err := s.requireHabit(userID, habitID); err != nil {
		return err
	}
	_, err = s.db.Exec(`DELETE FROM habit_completions WHERE habit_id = $1 AND day = $2`, habitID, day)
	return err
}

func (s *Store) requireHabit(userID, habitID string) error {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM habits WHERE id = $1 AND user_id = $2)`, habitID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Store) ReplaceHabits(userID string, habits []models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE user_id = $1`, userID); err != nil {
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
