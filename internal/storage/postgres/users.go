package postgres

import (
	"database/sql"
	"errors"
	"time"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
)

func (s *Store) UpsertUser(u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name`,
		u.ID, u.Email, u.Name, u.CreatedAt.UTC())
	return err
}

func (s *Store) GetUser(id string) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(`SELECT id, email, name, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.ErrNotFound
	}
	return u, err
}

func (s *Store) AddSession(sess models.Session) error {
	_, err := s.db.Exec(`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		sess.Token, sess.UserID, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	return err
}

func (s *Store) GetSession(token string) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`, token).
		Scan(&sess.Token, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.ErrNotFound
	}
	return sess, err
}

func (s *Store) DeleteSession(token string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	return requireAffected(res, apperr.ErrNotFound)
}

func (s *Store) DeleteExpiredSessions(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
