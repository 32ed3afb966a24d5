package entities

import "slices"

// HealthPlan is an insurance offering. Filters is keyed by FilterDefinition.Key;
// BackupPlanID is a soft reference that may dangle or form a cycle.
type HealthPlan struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name" validate:"required,max=200"`
	Description     string     `json:"description" yaml:"description"`
	CompanyID       string     `json:"companyId" yaml:"companyId" validate:"required"`
	CoverageSummary string     `json:"coverageSummary" yaml:"coverageSummary"`
	Price           float64    `json:"price" yaml:"price" validate:"gte=0"`
	Active          bool       `json:"active" yaml:"active"`
	Priority        int        `json:"priority" yaml:"priority"`
	CoversMedicines []string   `json:"coversMedicines" yaml:"coversMedicines"`
	Filters         Attributes `json:"filters" yaml:"filters"`
	BackupPlanID    string     `json:"backupPlanId,omitempty" yaml:"backupPlanId,omitempty"`
}

func (p HealthPlan) Clone() HealthPlan {
	p.CoversMedicines = slices.Clone(p.CoversMedicines)
	p.Filters = p.Filters.Clone()
	return p
}

// Covers reports whether medicineID is in the covered list
func (p HealthPlan) Covers(medicineID string) bool {
	return slices.Contains(p.CoversMedicines, medicineID)
}
