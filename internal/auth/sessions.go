package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

// Sessions issues and resolves bearer tokens backed by the sessions table.
type Sessions struct {
	store storage.Provider
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(store storage.Provider, ttl time.Duration) *Sessions {
	return &Sessions{store: store, ttl: ttl, now: time.Now}
}

// Create starts a session for userID.
func (s *Sessions) Create(userID string) (models.Session, error) {
	now := s.now()
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.AddSession(sess); err != nil {
		return models.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Lookup resolves a token. Unknown and expired tokens yield ErrUnauthorized;
// expired ones are deleted on the way out.
func (s *Sessions) Lookup(token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, apperr.ErrUnauthorized
	}
	sess, err := s.store.GetSession(token)
	if apperr.Is(err, apperr.ErrNotFound) {
		return models.Session{}, apperr.ErrUnauthorized
	}
	if err != nil {
		return models.Session{}, err
	}
	if sess.Expired(s.now()) {
		if err := s.store.DeleteSession(token); err != nil && !apperr.Is(err, apperr.ErrNotFound) {
			logger.Warn("Failed to delete expired session", "user", sess.UserID, "error", err)
		}
		return models.Session{}, apperr.ErrUnauthorized
	}
	return sess, nil
}

// Revoke ends a session. Revoking an unknown token is not an error.
func (s *Sessions) Revoke(token string) error {
	err := s.store.DeleteSession(token)
	if apperr.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

// Purge deletes every expired session.
func (s *Sessions) Purge() (int64, error) {
	return s.store.DeleteExpiredSessions(s.now())
}
