package postgres

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
	err := row.Scan(&n.ID, &n.UserID, &n.Text, &n.Date, &n.Pinned, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (s *Store) AddNote(n models.Note) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	_, err := s.db.Exec(`INSERT INTO notes (`+noteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Text, n.Date, n.Pinned, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	return err
}

func (s *Store) GetNote(userID, id string) (models.Note, error) {
	n, err := scanNote(s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.ErrNotFound
	}
	return n, err
}

func (s *Store) GetNotes(userID string) ([]models.Note, error) {
	rows, err := s.db.Query(`SELECT `+noteColumns+` FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
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
	res, err := s.db.Exec(`UPDATE notes SET body = $1, day = $2, pinned = $3, updated_at = $4 WHERE id = $5 AND user_id = $6`,
		n.Text, n.Date, n.Pinned, n.UpdatedAt.UTC(), n.ID, n.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res, apperr.ErrNotFound)
}

func (s *Store) DeleteNote(userID, id string) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, apperr.ErrNotFound)
}
