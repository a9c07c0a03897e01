package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Manager owns the session lifecycle: created at login, looked up per
// request, removed at logout or once expired.
type Manager struct {
	store Store
	ttl   time.Duration
	clock clockwork.Clock
}

// NewManager creates a Manager. A zero ttl makes sessions live until logout.
func NewManager(store Store, ttl time.Duration) *Manager {
	return NewManagerWithClock(store, ttl, clockwork.NewRealClock())
}

func NewManagerWithClock(store Store, ttl time.Duration, clock clockwork.Clock) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		clock: clock,
	}
}

// Login stores creds in a new session. No backend call is made; the
// credentials are checked by the backend on the next admin request.
func (m *Manager) Login(ctx context.Context, creds models.AdminCredentials, remoteAddr string) (*Session, error) {
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	now := m.clock.Now()
	s := &Session{
		ID:          uuid.New(),
		Credentials: creds,
		RemoteAddr:  remoteAddr,
		CreatedAt:   now,
	}
	if m.ttl > 0 {
		expiresAt := now.Add(m.ttl)
		s.ExpiresAt = &expiresAt
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info().
		Str("session_id", s.ID.String()).
		Str("username", creds.Username).
		Msg("admin session created")
	return s, nil
}

// Lookup returns the live session for id. Malformed ids are reported as
// ErrNotFound; expired sessions are deleted and reported as ErrExpired.
func (m *Manager) Lookup(ctx context.Context, id string) (*Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.Expired(m.clock.Now()) {
		if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("session_id", id).Msg("failed to delete expired session")
		}
		return nil, ErrExpired
	}
	return s, nil
}

// Logout removes the session. Unknown ids are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info().Str("session_id", id).Msg("admin session ended")
	return nil
}

// ExpiringStore is implemented by stores that can drop expired sessions in bulk.
type ExpiringStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RunSweeper periodically deletes expired sessions until ctx is done. It
// returns immediately when the store cannot sweep or sessions never expire.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	sweeper, ok := m.store.(ExpiringStore)
	if !ok || m.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("session sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper shutting down")
			return
		case <-ticker.Chan():
			n, err := sweeper.DeleteExpired(ctx, m.clock.Now())
			if err != nil {
				log.Error().Err(err).Msg("failed to sweep expired sessions")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("swept expired sessions")
			}
		}
	}
}
