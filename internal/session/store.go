package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"grievance-portal/internal/models"

	"github.com/rs/zerolog"
)

const (
	KeyToken = "authToken"
	KeyUser  = "userData"
)

// Store mirrors the persisted session in memory. It is either empty or holds
// both a user and a token.
type Store struct {
	kv  KV
	log zerolog.Logger

	mu    sync.RWMutex
	user  *models.User
	token string
}

func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log.With().Str("component", "session").Logger()}
}

// Restore loads the persisted session. Partial or malformed state is wiped
// and leaves the session empty; only backend failures are returned.
func (s *Store) Restore(ctx context.Context) error {
	token, hasToken, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return err
	}
	raw, hasUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return err
	}

	var u models.User
	if hasToken && hasUser && token != "" {
		if jerr := json.Unmarshal([]byte(raw), &u); jerr == nil && u.ID != "" {
			s.set(&u, token)
			return nil
		} else if jerr != nil {
			s.log.Warn().Err(jerr).Msg("discarding malformed stored user")
		}
	}

	s.set(nil, "")
	if hasToken || hasUser {
		return s.kv.Delete(ctx, KeyToken, KeyUser)
	}
	return nil
}

// Establish persists user and token and makes them the active session.
func (s *Store) Establish(ctx context.Context, u models.User, token string) error {
	if token == "" || u.ID == "" {
		return fmt.Errorf("session needs both a user and a token")
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	s.set(&u, token)
	return nil
}

// Clear forgets the session both in memory and in the backend.
func (s *Store) Clear(ctx context.Context) error {
	s.set(nil, "")
	return s.kv.Delete(ctx, KeyToken, KeyUser)
}

func (s *Store) Active() (models.User, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, "", false
	}
	return *s.user, s.token, true
}

func (s *Store) Close() error { return s.kv.Close() }

func (s *Store) set(u *models.User, token string) {
	s.mu.Lock()
	s.user, s.token = u, token
	s.mu.Unlock()
}
