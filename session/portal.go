package session

import (
	"fmt"

	"github.com/giygas/healthplans-api/engine"
	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/metrics"
)

// DashboardSize is the number of recommendations shown on the dashboard
const DashboardSize = 3

// Portal runs the engines against the latest catalog snapshot. It holds no
// per-user state; every accessor takes the session explicitly.
type Portal struct {
	catalog     interfaces.CatalogReader
	recommender *engine.Recommender
}

// NewPortal uses engine.DefaultBoosts when recommender is nil
func NewPortal(catalog interfaces.CatalogReader, recommender *engine.Recommender) *Portal {
	if recommender == nil {
		recommender = engine.NewRecommender(engine.DefaultBoosts)
	}
	return &Portal{catalog: catalog, recommender: recommender}
}

// Search returns Rank(Match(query, selections)) over the current catalog.
func (p *Portal) Search(query string, selections entities.Selections) []entities.HealthPlan {
	return p.search(p.catalog.Snapshot(), query, selections)
}

func (p *Portal) search(catalog entities.Catalog, query string, selections entities.Selections) []entities.HealthPlan {
	matched := engine.Match(catalog, query, selections)
	metrics.PlansMatched.Observe(float64(len(matched)))
	return engine.Rank(matched, catalog.Companies)
}

// FilteredPlans is the ranked search for the session's query and selections
func (p *Portal) FilteredPlans(s *Session) []entities.HealthPlan {
	query, selections := s.State()
	return p.Search(query, selections)
}

// RecommendedPlans re-orders FilteredPlans by the condition boosts
func (p *Portal) RecommendedPlans(s *Session) []entities.HealthPlan {
	catalog := p.catalog.Snapshot()
	query, selections := s.State()
	ranked := p.search(catalog, query, selections)
	return p.recommender.Recommend(ranked, catalog.Medicines, selections)
}

// Dashboard is the consumer landing view
type Dashboard struct {
	Recommended []entities.HealthPlan `json:"recommended"`
	Saved       []entities.HealthPlan `json:"saved"`
	Query       string                `json:"query"`
	Selections  entities.Selections   `json:"selections"`
}

// Dashboard returns the top recommendations and the recommended plans the
// user has saved, both in recommendation order.
func (p *Portal) Dashboard(s *Session) Dashboard {
	recommended := p.RecommendedPlans(s)
	query, selections := s.State()

	saved := make([]entities.HealthPlan, 0)
	for _, plan := range recommended {
		if s.favorites.IsFavorite(plan.ID) {
			saved = append(saved, plan)
		}
	}

	top := recommended
	if len(top) > DashboardSize {
		top = top[:DashboardSize]
	}
	return Dashboard{
		Recommended: top,
		Saved:       saved,
		Query:       query,
		Selections:  selections,
	}
}

// PlanDetail is a plan with its references resolved
type PlanDetail struct {
	Plan            entities.HealthPlan  `json:"plan"`
	Company         *entities.Company    `json:"company"`
	EffectiveActive bool                 `json:"effectiveActive"`
	Medicines       []entities.Medicine  `json:"medicines"`
	BackupPlan      *entities.HealthPlan `json:"backupPlan"`
}

// PlanDetail resolves plan id. Dangling medicine ids are skipped and an
// unresolved company or backup plan is reported as nil.
func (p *Portal) PlanDetail(id string) (PlanDetail, error) {
	catalog := p.catalog.Snapshot()

	plan, ok := findPlan(catalog.Plans, id)
	if !ok {
		return PlanDetail{}, fmt.Errorf("plan %s: %w", id, engine.ErrNotFound)
	}

	lookup := engine.NewLookup(catalog.Companies, catalog.Medicines)
	detail := PlanDetail{
		Plan:            plan,
		EffectiveActive: lookup.EffectiveActive(plan),
		Medicines:       lookup.CoveredMedicines(plan),
	}
	if company, err := lookup.Company(plan.CompanyID); err == nil {
		detail.Company = &company
	}
	if plan.BackupPlanID != "" {
		if backup, ok := findPlan(catalog.Plans, plan.BackupPlanID); ok {
			detail.BackupPlan = &backup
		}
	}
	return detail, nil
}

func findPlan(plans []entities.HealthPlan, id string) (entities.HealthPlan, bool) {
	for _, plan := range plans {
		if plan.ID == id {
			return plan, true
		}
	}
	return entities.HealthPlan{}, false
}

// Stats are the admin dashboard totals
type Stats struct {
	TotalCompanies  int `json:"totalCompanies"`
	ActiveCompanies int `json:"activeCompanies"`
	TotalPlans      int `json:"totalPlans"`
	ActivePlans     int `json:"activePlans"`
	TotalMedicines  int `json:"totalMedicines"`
	TotalFilters    int `json:"totalFilters"`
	TotalUsers      int `json:"totalUsers"`
}

func (p *Portal) Stats() Stats {
	catalog := p.catalog.Snapshot()
	stats := Stats{
		TotalCompanies: len(catalog.Companies),
		TotalPlans:     len(catalog.Plans),
		TotalMedicines: len(catalog.Medicines),
		TotalFilters:   len(catalog.Filters),
		TotalUsers:     len(catalog.Users),
	}
	for _, c := range catalog.Companies {
		if c.Active {
			stats.ActiveCompanies++
		}
	}
	for _, plan := range catalog.Plans {
		if plan.Active {
			stats.ActivePlans++
		}
	}
	return stats
}
