package users

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an unknown user ID.
	ErrNotFound = errors.New("users: user not found")

	// ErrLoginTaken is returned when another user has the same login.
	ErrLoginTaken = errors.New("users: login already taken")
)

// Store keeps users in memory in creation order.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]User
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]User)}
}

// Seed adds the demo users.
func (s *Store) Seed() error {
	for _, in := range []Input{
		{Login: "user1", Email: "user1@test.com", FirstName: "User", LastName: "Test 1"},
		{Login: "user2", Email: "user2@test.com", FirstName: "User", LastName: "Test 2"},
		{Login: "user3", Email: "user3@test.com", FirstName: "User", LastName: "Test 3"},
	} {
		if _, err := s.Create(in); err != nil {
			return err
		}
	}
	return nil
}

// List returns users whose login starts with q.Login, paginated by
// q.Offset and q.Limit.
func (s *Store) List(q ListQuery) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	out := []User{}
	skipped := 0
	for _, id := range s.order {
		u := s.byID[id]
		if !strings.HasPrefix(u.Login, q.Login) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, u)
	}
	return out
}

// Get returns the user with the given ID.
func (s *Store) Get(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// Create stores a new user with a generated ID.
func (s *Store) Create(in Input) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loginTaken(in.Login, "") {
		return User{}, ErrLoginTaken
	}

	u := fromInput(uuid.NewString(), in)
	s.byID[u.ID] = u
	s.order = append(s.order, u.ID)
	return u, nil
}

// Update replaces the writable fields of an existing user.
func (s *Store) Update(id string, in Input) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return User{}, ErrNotFound
	}
	if s.loginTaken(in.Login, id) {
		return User{}, ErrLoginTaken
	}

	u := fromInput(id, in)
	s.byID[id] = u
	return u, nil
}

// Delete removes a user.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// loginTaken reports whether a user other than except has login. The
// caller holds s.mu.
func (s *Store) loginTaken(login, except string) bool {
	for id, u := range s.byID {
		if id != except && strings.EqualFold(u.Login, login) {
			return true
		}
	}
	return false
}

func fromInput(id string, in Input) User {
	return User{
		ID:        id,
		Login:     in.Login,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
}
