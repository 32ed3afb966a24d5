// Package interfaces defines the contracts between the catalog store, the
// session layer, the scheduler and the HTTP handlers.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/healthplans-api/entities"
)

// CatalogReader is the read side of the catalog store
type CatalogReader interface {
	Snapshot() entities.Catalog
	Version() uint64
	GetLastUpdated() time.Time
}

// CatalogStore defines the admin CRUD contract. Every mutation publishes a new
// snapshot; readers never see a half-applied change.
type CatalogStore interface {
	CatalogReader

	ReplaceCatalog(catalog entities.Catalog)

	GetCompany(id string) (entities.Company, error)
	CreateCompany(c entities.Company) (entities.Company, error)
	UpdateCompany(c entities.Company) (entities.Company, error)
	DeleteCompany(id string) error

	GetMedicine(id string) (entities.Medicine, error)
	CreateMedicine(m entities.Medicine) (entities.Medicine, error)
	UpdateMedicine(m entities.Medicine) (entities.Medicine, error)
	DeleteMedicine(id string) error
	MedicinesByCompany(companyID string) []entities.Medicine

	GetPlan(id string) (entities.HealthPlan, error)
	CreatePlan(p entities.HealthPlan) (entities.HealthPlan, error)
	UpdatePlan(p entities.HealthPlan) (entities.HealthPlan, error)
	DeletePlan(id string) error

	GetFilter(id string) (entities.FilterDefinition, error)
	CreateFilter(f entities.FilterDefinition) (entities.FilterDefinition, error)
	UpdateFilter(f entities.FilterDefinition) (entities.FilterDefinition, error)
	DeleteFilter(id string) error
}

// CatalogLoader produces the initial catalog
type CatalogLoader interface {
	Load(ctx context.Context) (entities.Catalog, error)
}

// Scheduler manages background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// SessionSweeper closes sessions idle for longer than the given duration
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// HealthChecker reports service health for the /health endpoint
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// HTTPHandler lists every endpoint served by the API
type HTTPHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)

	ListPlans(w http.ResponseWriter, r *http.Request)
	ListRecommendedPlans(w http.ResponseWriter, r *http.Request)
	GetPlanDetail(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	ListFilters(w http.ResponseWriter, r *http.Request)

	GetSelection(w http.ResponseWriter, r *http.Request)
	SetQuery(w http.ResponseWriter, r *http.Request)
	SetSelection(w http.ResponseWriter, r *http.Request)
	ResetSelections(w http.ResponseWriter, r *http.Request)

	ListFavorites(w http.ResponseWriter, r *http.Request)
	ToggleFavorite(w http.ResponseWriter, r *http.Request)

	AdminListCompanies(w http.ResponseWriter, r *http.Request)
	AdminCreateCompany(w http.ResponseWriter, r *http.Request)
	AdminUpdateCompany(w http.ResponseWriter, r *http.Request)
	AdminDeleteCompany(w http.ResponseWriter, r *http.Request)
	AdminCompanyMedicines(w http.ResponseWriter, r *http.Request)

	AdminListMedicines(w http.ResponseWriter, r *http.Request)
	AdminCreateMedicine(w http.ResponseWriter, r *http.Request)
	AdminUpdateMedicine(w http.ResponseWriter, r *http.Request)
	AdminDeleteMedicine(w http.ResponseWriter, r *http.Request)

	AdminListPlans(w http.ResponseWriter, r *http.Request)
	AdminCreatePlan(w http.ResponseWriter, r *http.Request)
	AdminUpdatePlan(w http.ResponseWriter, r *http.Request)
	AdminDeletePlan(w http.ResponseWriter, r *http.Request)

	AdminListFilters(w http.ResponseWriter, r *http.Request)
	AdminCreateFilter(w http.ResponseWriter, r *http.Request)
	AdminUpdateFilter(w http.ResponseWriter, r *http.Request)
	AdminDeleteFilter(w http.ResponseWriter, r *http.Request)

	AdminStats(w http.ResponseWriter, r *http.Request)
	AdminIntegrity(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}
