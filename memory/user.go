package memory

import (
	"context"

	"github.com/meikuraledutech/assistant"
)

// GetUser retrieves a user by id.
func (s *Store) GetUser(_ context.Context, id int64) (*assistant.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	out := *u
	return &out, true, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*assistant.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	u := s.findUserLocked(username)
	if u == nil {
		return nil, false, nil
	}
	out := *u
	return &out, true, nil
}

// CreateUser stores a new user. Usernames are unique.
func (s *Store) CreateUser(_ context.Context, user assistant.NewUser) (*assistant.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	if s.findUserLocked(user.Username) != nil {
		return nil, assistant.ErrUsernameTaken
	}

	u := &assistant.User{
		ID:       s.nextUserID,
		Username: user.Username,
		Password: user.Password,
	}
	s.nextUserID++
	s.users[u.ID] = u

	out := *u
	return &out, nil
}

func (s *Store) findUserLocked(username string) *assistant.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
