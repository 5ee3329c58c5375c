package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/auth"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[user.ID]*user.User
	byEmail map[string]user.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[user.ID]*user.User),
		byEmail: make(map[string]user.ID),
	}
}

func (r *UserRepository) ByID(_ context.Context, id user.ID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) ByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := normalizeEmail(u.Email)
	if owner, taken := r.byEmail[email]; taken && owner != u.ID {
		return user.ErrEmailAlreadyUsed
	}
	if current, exists := r.users[u.ID]; exists {
		delete(r.byEmail, normalizeEmail(current.Email))
	}
	r.users[u.ID] = cloneUser(u)
	r.byEmail[email] = u.ID
	return nil
}

func cloneUser(u *user.User) *user.User {
	out := *u
	out.Roles = append([]user.Role(nil), u.Roles...)
	return &out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ user.Repository = (*UserRepository)(nil)

// SessionStore keeps bearer sessions in process memory; restarting the
// service logs everyone out, which is acceptable for the dev profile.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[auth.Token]*auth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[auth.Token]*auth.Session)}
}

func (s *SessionStore) Save(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Roles = append([]user.Role(nil), session.Roles...)
	s.sessions[session.Token] = &copied
	return nil
}

func (s *SessionStore) Get(_ context.Context, token auth.Token) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	copied := *session
	copied.Roles = append([]user.Role(nil), session.Roles...)
	return &copied, nil
}

func (s *SessionStore) Delete(_ context.Context, token auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) DeleteByUser(_ context.Context, userID user.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

var _ auth.SessionStore = (*SessionStore)(nil)
