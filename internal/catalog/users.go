package catalog

import (
	"errors"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// UserStore owns the users collection. Same contract as MachineStore, keyed
// by login.
type UserStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// NewUserStore returns a store backed by the JSON document at path.
func NewUserStore(path string, log *zap.Logger) *UserStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserStore{path: path, log: log}
}

// List returns all users in insertion order, falling back to an empty
// collection on any read failure.
func (s *UserStore) List() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *UserStore) load() []User {
	users, err := readDocument[User](s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []User{}
		}
		s.log.Warn("failed to read users document", zap.String("path", s.path), zap.Error(err))
		return []User{}
	}
	return users
}

// Add validates the user and appends it, rejecting logins that already exist
// (case-insensitive).
func (s *UserStore) Add(u User) error {
	if err := ValidateUser(u); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	for _, existing := range users {
		if strings.EqualFold(existing.Login, u.Login) {
			return &DuplicateKeyError{Key: u.Login}
		}
	}

	users = append(users, u)
	if err := writeDocument(s.path, users); err != nil {
		return err
	}

	s.log.Info("user added", zap.String("login", u.Login))
	return nil
}

// Update replaces the user stored under originalLogin in place.
func (s *UserStore) Update(originalLogin string, u User) error {
	if err := ValidateUser(u); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	idx := -1
	for i, existing := range users {
		if existing.Login == originalLogin {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Key: originalLogin}
	}

	if !strings.EqualFold(originalLogin, u.Login) {
		for i, existing := range users {
			if i != idx && strings.EqualFold(existing.Login, u.Login) {
				return &DuplicateKeyError{Key: u.Login}
			}
		}
	}

	users[idx] = u
	if err := writeDocument(s.path, users); err != nil {
		return err
	}

	s.log.Info("user updated", zap.String("original_login", originalLogin), zap.String("login", u.Login))
	return nil
}

// Delete removes the user with the given login.
func (s *UserStore) Delete(login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	remaining := make([]User, 0, len(users))
	for _, existing := range users {
		if existing.Login != login {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == len(users) {
		return &NotFoundError{Key: login}
	}

	if err := writeDocument(s.path, remaining); err != nil {
		return err
	}

	s.log.Info("user deleted", zap.String("login", login))
	return nil
}

// FindByLogin returns the user with the exact login.
func (s *UserStore) FindByLogin(login string) (User, bool) {
	for _, u := range s.List() {
		if u.Login == login {
			return u, true
		}
	}
	return User{}, false
}
