// Package data provides thread-safe storage for the plan catalog.
// Readers get immutable snapshots swapped in atomically; writers serialize on a
// mutex, copy the current catalog, apply their change and publish the copy.
package data

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/google/uuid"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
)

// CatalogContainer holds the catalog behind an atomic pointer
type CatalogContainer struct {
	catalog         atomic.Value // entities.Catalog
	lastUpdated     atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
	version         atomic.Uint64
	writeMu         sync.Mutex
}

// NewCatalogContainer creates a container with an empty catalog
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.catalog.Store(entities.Catalog{})
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// Snapshot returns the current catalog. Callers must treat it as read-only.
func (cc *CatalogContainer) Snapshot() entities.Catalog {
	if v := cc.catalog.Load(); v != nil {
		if catalog, ok := v.(entities.Catalog); ok {
			return catalog
		}
	}

	logging.Warn("Catalog is empty or invalid")
	return entities.Catalog{}
}

// Version increments on every mutation and can key memoized query results
func (cc *CatalogContainer) Version() uint64 {
	return cc.version.Load()
}

// GetLastUpdated returns the time of the last mutation
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if v := cc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// ReplaceCatalog swaps in a whole new catalog, as done on seed load
func (cc *CatalogContainer) ReplaceCatalog(catalog entities.Catalog) {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	cc.publish(catalog.Clone())
}

func (cc *CatalogContainer) publish(catalog entities.Catalog) {
	cc.catalog.Store(catalog)
	cc.lastUpdated.Store(time.Now())
	cc.version.Add(1)
}

// mutate runs fn on a private copy of the catalog and publishes it when fn succeeds
func (cc *CatalogContainer) mutate(fn func(c *entities.Catalog) error) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()

	next := cc.Snapshot().Clone()
	if err := fn(&next); err != nil {
		return err
	}
	cc.publish(next)
	return nil
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return idOf(item) == id })
}

func companyID(c entities.Company) string         { return c.ID }
func medicineID(m entities.Medicine) string       { return m.ID }
func planID(p entities.HealthPlan) string         { return p.ID }
func filterID(f entities.FilterDefinition) string { return f.ID }

// create appends item after assigning a fresh id when it has none
func create[T any](items *[]T, item T, idOf func(T) string, setID func(*T, string), kind string) (T, error) {
	id := idOf(item)
	if id == "" {
		id = uuid.NewString()
		setID(&item, id)
	}
	if indexOf(*items, id, idOf) >= 0 {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", kind, id, ErrDuplicateID)
	}
	*items = append(*items, item)
	return item, nil
}

func update[T any](items []T, item T, idOf func(T) string, kind string) error {
	i := indexOf(items, idOf(item), idOf)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", kind, idOf(item), ErrNotFound)
	}
	items[i] = item
	return nil
}

func remove[T any](items *[]T, id string, idOf func(T) string, kind string) error {
	i := indexOf(*items, id, idOf)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	*items = slices.Delete(*items, i, i+1)
	return nil
}

func find[T any](items []T, id string, idOf func(T) string, kind string) (T, error) {
	i := indexOf(items, id, idOf)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return items[i], nil
}
