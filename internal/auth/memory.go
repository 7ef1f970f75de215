package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

// MemStore is an in-memory UserStore for tests and database-less runs.
// When Apps is set, account deletion cascades to application records the
// same way the Postgres transaction does.
type MemStore struct {
	mu    sync.RWMutex
	users map[string]User
	Apps  *applications.MemStore
}

func NewMemStore(apps *applications.MemStore) *MemStore {
	return &MemStore{users: make(map[string]User), Apps: apps}
}

func (s *MemStore) Create(_ context.Context, name, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}

	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	out := u
	return &out, nil
}

func (s *MemStore) GetByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (s *MemStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemStore) SetResetToken(_ context.Context, userID, tokenHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpires = &expires
	s.users[userID] = u
	return nil
}

func (s *MemStore) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpires = nil
	s.users[userID] = u
	return nil
}

func (s *MemStore) DeleteCascade(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	_, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return 0, ErrUserNotFound
	}

	// Records first, identity second; retrying after a partial failure is
	// idempotent.
	var deleted int64
	if s.Apps != nil {
		var err error
		deleted, err = s.Apps.DeleteByOwner(ctx, userID)
		if err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
	return deleted, nil
}
