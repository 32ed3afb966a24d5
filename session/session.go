// Package session holds per-user selection state and favorites, the mock login
// that opens sessions, and the Portal read accessors that run the engines
// against the current catalog snapshot.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/favorites"
)

// Session is one signed-in user's Selection State plus their favorites.
// All methods are safe for concurrent use.
type Session struct {
	ID   string
	User entities.User

	mu         sync.RWMutex
	query      string
	selections entities.Selections
	lastSeen   time.Time

	favorites *favorites.Tracker
}

func newSession(id string, user entities.User, favoriteIDs []string) *Session {
	return &Session{
		ID:         id,
		User:       user,
		selections: make(entities.Selections),
		lastSeen:   time.Now(),
		favorites:  favorites.NewTracker(favoriteIDs...),
	}
}

// Query returns the current free-text search
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery stores the search text as typed; trimming happens at match time.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// SetSelection sets the value for key. An absent value removes the key.
func (s *Session) SetSelection(key string, value entities.Value) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value.Shape() == entities.ShapeAbsent {
		delete(s.selections, key)
		return
	}
	s.selections[key] = value
}

// ResetSelections clears every filter selection. The query is kept.
func (s *Session) ResetSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = make(entities.Selections)
}

// Selections returns a copy of the current selections
func (s *Session) Selections() entities.Selections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selections.Clone()
}

// State returns the query and selections read under one lock
func (s *Session) State() (string, entities.Selections) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query, s.selections.Clone()
}

func (s *Session) Favorites() *favorites.Tracker {
	return s.favorites
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the last Manager.Get for this session
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
