package sqlite

import (
	"database/sql"
	"errors"
	"time"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
)

const noteColumns = "id, user_id, body, day, pinned, created_at, updated_at"

func scanNote(row scanner) (models.Note, error) {
	var n models.Note
	var createdAt, updatedAt string
	if err := row.Scan(&n.ID, &n.UserID, &n.Text, &n.Date, &n.Pinned, &createdAt, &updatedAt); err != nil {
		return models.Note{}, err
	}
	var err error
	if n.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Note{}, err
	}
	if n.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

func (s *Store) AddNote(n models.Note) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	_, err := s.db.Exec(`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Text, n.Date, n.Pinned, formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	return err
}

func (s *Store) GetNote(userID, id string) (models.Note, error) {
	n, err := scanNote(s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.ErrNotFound
	}
	return n, err
}

func (s *Store) GetNotes(userID string) ([]models.Note, error) {
	rows, err := s.db.Query(`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *Store) UpdateNote(n models.Note) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	res, err := s.db.Exec(`UPDATE notes SET body = ?, day = ?, pinned = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		n.Text, n.Date, n.Pinned, formatTime(n.UpdatedAt), n.ID, n.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) DeleteNote(userID, id string) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
