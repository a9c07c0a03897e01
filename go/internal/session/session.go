package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

var (
	// ErrNotFound is returned when no session exists for an id
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session outlived its TTL
	ErrExpired = errors.New("session expired")
	// ErrMissingCredentials is returned when login lacks a username or password
	ErrMissingCredentials = errors.New("username and password are required")
)

// Session carries the admin credentials of one logged-in console user.
// ExpiresAt is nil for sessions that never expire.
type Session struct {
	ID          uuid.UUID
	Credentials models.AdminCredentials
	RemoteAddr  string
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Store persists sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
