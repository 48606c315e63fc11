package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

// Backend persists the full user map.
type Backend interface {
	Load(ctx context.Context) (map[int64]domain.User, error)
	Save(ctx context.Context, users map[int64]domain.User) error
	Close() error
}

// Store is the in-memory user registry. All access goes through its methods;
// records handed out are copies.
type Store struct {
	mu    sync.RWMutex
	users map[int64]domain.User
	dirty bool

	// persistMu serializes writes to the backend.
	persistMu sync.Mutex
	backend   Backend
	log       *zap.Logger
}

// New returns an empty store writing to backend.
func New(backend Backend, log *zap.Logger) *Store {
	return &Store{
		users:   make(map[int64]domain.User),
		backend: backend,
		log:     log,
	}
}

// Load replaces the in-memory map with the backend's contents. A missing or
// unreadable backing store leaves the map empty.
func (s *Store) Load(ctx context.Context) {
	users, err := s.backend.Load(ctx)
	if err != nil {
		s.log.Error("load users, starting empty", zap.Error(err))
		users = make(map[int64]domain.User)
	}

	s.mu.Lock()
	s.users = users
	s.dirty = false
	s.mu.Unlock()

	s.log.Info("users loaded", zap.Int("count", len(users)))
}

// Get returns a copy of the user's record.
func (s *Store) Get(id int64) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// GetOrCreate returns the user's record, inserting the default one if absent.
func (s *Store) GetOrCreate(id int64) domain.User {
	if u, ok := s.Get(id); ok {
		return u
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		u = domain.NewUser(id)
		s.users[id] = u
		s.dirty = true
	}
	return u.Clone()
}

// Update applies fn to the user's record atomically, creating the default
// record first if needed, and returns the result.
func (s *Store) Update(id int64, fn func(u *domain.User)) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		u = domain.NewUser(id)
	} else {
		u = u.Clone()
	}
	fn(&u)
	u.ID = id
	s.users[id] = u
	s.dirty = true
	return u.Clone()
}

// Snapshot returns copies of all records ordered by id.
func (s *Store) Snapshot() []domain.User {
	s.mu.RLock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the total and subscribed user counts.
func (s *Store) Counts() (total, subscribed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.NotificationsEnabled {
			subscribed++
		}
	}
	return len(s.users), subscribed
}

// Dirty reports whether there are changes not yet persisted.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Persist writes the full map to the backend.
func (s *Store) Persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	users := make(map[int64]domain.User, len(s.users))
	for id, u := range s.users {
		users[id] = u.Clone()
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.backend.Save(ctx, users); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("persist users: %w", err)
	}
	s.log.Debug("users persisted", zap.Int("count", len(users)))
	return nil
}

// Flush persists only when there are pending changes.
func (s *Store) Flush(ctx context.Context) error {
	if !s.Dirty() {
		return nil
	}
	return s.Persist(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
