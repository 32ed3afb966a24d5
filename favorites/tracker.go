// Package favorites tracks the plans a user has saved. It works purely on ids
// and never checks that a plan still exists.
package favorites

import (
	"slices"
	"sync"
)

// Tracker is a set of plan ids that keeps insertion order
type Tracker struct {
	mu  sync.RWMutex
	ids []string
}

// NewTracker returns a tracker seeded with ids, duplicates dropped
func NewTracker(ids ...string) *Tracker {
	t := &Tracker{}
	for _, id := range ids {
		if !slices.Contains(t.ids, id) {
			t.ids = append(t.ids, id)
		}
	}
	return t
}

// Toggle adds planID when absent and removes it when present. It returns the
// new membership.
func (t *Tracker) Toggle(planID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := slices.Index(t.ids, planID); i >= 0 {
		t.ids = slices.Delete(t.ids, i, i+1)
		return false
	}
	t.ids = append(t.ids, planID)
	return true
}

func (t *Tracker) IsFavorite(planID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.ids, planID)
}

// IDs returns a copy of the saved ids in the order they were added
func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.ids)
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
