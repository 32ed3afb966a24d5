package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/favorites"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/metrics"
	"github.com/google/uuid"
)

var (
	ErrUnknownUser     = errors.New("unknown user")
	ErrSessionNotFound = errors.New("session not found")
)

const storeTimeout = 2 * time.Second

// Manager opens and tracks sessions. Login is a mock: any seeded user's email
// opens a session, there is no credential check.
type Manager struct {
	catalog interfaces.CatalogReader
	store   favorites.Store

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager creates a manager. A nil store keeps favorites in memory.
func NewManager(catalog interfaces.CatalogReader, store favorites.Store) *Manager {
	if store == nil {
		store = favorites.NewMemoryStore()
	}
	return &Manager{
		catalog:  catalog,
		store:    store,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Login opens a session for the user with email (case-insensitive) and loads
// their saved favorites. A favorites load failure is logged and the session
// starts with none.
func (m *Manager) Login(ctx context.Context, email string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUnknownUser
	}

	var user entities.User
	found := false
	for _, u := range m.catalog.Snapshot().Users {
		if strings.EqualFold(u.Email, email) {
			user, found = u, true
			break
		}
	}
	if !found {
		return nil, ErrUnknownUser
	}

	loadCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	ids, err := m.store.Load(loadCtx, user.ID)
	if err != nil {
		logging.Warn("Failed to load favorites, starting empty", "user", user.ID, "error", err)
		ids = nil
	}

	s := newSession(uuid.NewString(), user, ids)
	s.touch(m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	logging.Info("Session opened", "user", user.ID, "role", user.Role)
	return s, nil
}

// Get returns the session with id and marks it as seen
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Logout closes the session
func (m *Manager) Logout(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Set(float64(count))
	return nil
}

// ToggleFavorite flips planID in the session's favorites and persists the new
// list. Persistence is best effort; the in-memory state always wins.
func (m *Manager) ToggleFavorite(ctx context.Context, s *Session, planID string) bool {
	favorite := s.favorites.Toggle(planID)
	metrics.RecordFavoriteToggle(favorite)

	saveCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := m.store.Save(saveCtx, s.User.ID, s.favorites.IDs()); err != nil {
		logging.Warn("Failed to persist favorites", "user", s.User.ID, "error", err)
	}
	return favorite
}

// Sweep closes sessions not seen for longer than idle and returns how many
// were closed.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	closed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			closed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	if closed > 0 {
		logging.Info("Idle sessions closed", "closed", closed, "remaining", count)
	}
	return closed
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
