package sqlite

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
		INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name`,
		u.ID, u.Email, u.Name, formatTime(u.CreatedAt))
	return err
}

func (s *Store) GetUser(id string) (models.User, error) {
	var u models.User
	var createdAt string
	err := s.db.QueryRow(`SELECT id, email, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt, err = parseTime("created_at", createdAt)
	return u, err
}

func (s *Store) AddSession(sess models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, formatTime(sess.CreatedAt), formatTime(sess.ExpiresAt))
	return err
}

func (s *Store) GetSession(token string) (models.Session, error) {
	var sess models.Session
	var createdAt, expiresAt string
	err := s.db.QueryRow(`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	if sess.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Session{}, err
	}
	if sess.ExpiresAt, err = parseTime("expires_at", expiresAt); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *Store) DeleteSession(token string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) DeleteExpiredSessions(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
