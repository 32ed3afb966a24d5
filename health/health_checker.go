// Package health provides health checking for the health plans API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/healthplans-api/engine"
	"github.com/giygas/healthplans-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	catalog interfaces.CatalogReader
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(catalog interfaces.CatalogReader) interfaces.HealthChecker {
	return &HealthCheckerImpl{catalog: catalog}
}

// HealthCheck reports unhealthy before the first catalog load or when the
// catalog holds no plans, and degraded when no plan is effectively active.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	catalog := h.catalog.Snapshot()
	lastUpdate := h.catalog.GetLastUpdated()

	lookup := engine.NewLookup(catalog.Companies, catalog.Medicines)
	activePlans := 0
	for _, plan := range catalog.Plans {
		if lookup.EffectiveActive(plan) {
			activePlans++
		}
	}

	switch {
	case lastUpdate.IsZero() || len(catalog.Plans) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case activePlans == 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"catalog_version": h.catalog.Version(),
		"companies":       len(catalog.Companies),
		"medicines":       len(catalog.Medicines),
		"filters":         len(catalog.Filters),
		"plans":           len(catalog.Plans),
		"active_plans":    activePlans,
	}
	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["catalog_age_hours"] = math.Round(time.Since(lastUpdate).Hours()*10) / 10
	}

	return status, data, httpStatus
}
