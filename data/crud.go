package data

import (
	"slices"
	"time"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/logging"
)

// Companies

func (cc *CatalogContainer) GetCompanies() []entities.Company {
	return cc.Snapshot().Companies
}

func (cc *CatalogContainer) GetCompany(id string) (entities.Company, error) {
	return find(cc.Snapshot().Companies, id, companyID, "company")
}

// CreateCompany stores c, assigning an id and a creation time when missing
func (cc *CatalogContainer) CreateCompany(c entities.Company) (entities.Company, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	var created entities.Company
	err := cc.mutate(func(cat *entities.Catalog) error {
		var err error
		created, err = create(&cat.Companies, c.Clone(), companyID, func(c *entities.Company, id string) { c.ID = id }, "company")
		return err
	})
	return created, err
}

func (cc *CatalogContainer) UpdateCompany(c entities.Company) (entities.Company, error) {
	err := cc.mutate(func(cat *entities.Catalog) error {
		return update(cat.Companies, c.Clone(), companyID, "company")
	})
	return c, err
}

// DeleteCompany removes the company only. Plans that reference it are kept
// and from then on rank as inactive.
func (cc *CatalogContainer) DeleteCompany(id string) error {
	return cc.mutate(func(cat *entities.Catalog) error {
		return remove(&cat.Companies, id, companyID, "company")
	})
}

// Medicines

func (cc *CatalogContainer) GetMedicines() []entities.Medicine {
	return cc.Snapshot().Medicines
}

func (cc *CatalogContainer) GetMedicine(id string) (entities.Medicine, error) {
	return find(cc.Snapshot().Medicines, id, medicineID, "medicine")
}

func (cc *CatalogContainer) CreateMedicine(m entities.Medicine) (entities.Medicine, error) {
	var created entities.Medicine
	err := cc.mutate(func(cat *entities.Catalog) error {
		var err error
		created, err = create(&cat.Medicines, m.Clone(), medicineID, func(m *entities.Medicine, id string) { m.ID = id }, "medicine")
		return err
	})
	return created, err
}

func (cc *CatalogContainer) UpdateMedicine(m entities.Medicine) (entities.Medicine, error) {
	err := cc.mutate(func(cat *entities.Catalog) error {
		return update(cat.Medicines, m.Clone(), medicineID, "medicine")
	})
	return m, err
}

// DeleteMedicine removes the medicine and strips its id from every plan's
// covered list in the same write, so no plan is left pointing at it.
func (cc *CatalogContainer) DeleteMedicine(id string) error {
	return cc.mutate(func(cat *entities.Catalog) error {
		if err := remove(&cat.Medicines, id, medicineID, "medicine"); err != nil {
			return err
		}

		affected := 0
		for i := range cat.Plans {
			before := len(cat.Plans[i].CoversMedicines)
			cat.Plans[i].CoversMedicines = slices.DeleteFunc(cat.Plans[i].CoversMedicines, func(m string) bool { return m == id })
			if len(cat.Plans[i].CoversMedicines) != before {
				affected++
			}
		}
		if affected > 0 {
			logging.Info("Removed deleted medicine from plans", "medicine_id", id, "plans", affected)
		}
		return nil
	})
}

// MedicinesByCompany lists the medicines available from companyID
func (cc *CatalogContainer) MedicinesByCompany(companyID string) []entities.Medicine {
	out := make([]entities.Medicine, 0)
	for _, m := range cc.Snapshot().Medicines {
		if m.AvailableFrom(companyID) {
			out = append(out, m)
		}
	}
	return out
}

// Plans

func (cc *CatalogContainer) GetPlans() []entities.HealthPlan {
	return cc.Snapshot().Plans
}

func (cc *CatalogContainer) GetPlan(id string) (entities.HealthPlan, error) {
	return find(cc.Snapshot().Plans, id, planID, "plan")
}

func (cc *CatalogContainer) CreatePlan(p entities.HealthPlan) (entities.HealthPlan, error) {
	var created entities.HealthPlan
	err := cc.mutate(func(cat *entities.Catalog) error {
		var err error
		created, err = create(&cat.Plans, p.Clone(), planID, func(p *entities.HealthPlan, id string) { p.ID = id }, "plan")
		return err
	})
	return created, err
}

func (cc *CatalogContainer) UpdatePlan(p entities.HealthPlan) (entities.HealthPlan, error) {
	err := cc.mutate(func(cat *entities.Catalog) error {
		return update(cat.Plans, p.Clone(), planID, "plan")
	})
	return p, err
}

// DeletePlan removes the plan. Backup references to it are left dangling.
func (cc *CatalogContainer) DeletePlan(id string) error {
	return cc.mutate(func(cat *entities.Catalog) error {
		return remove(&cat.Plans, id, planID, "plan")
	})
}

// Filter definitions

func (cc *CatalogContainer) GetFilters() []entities.FilterDefinition {
	return cc.Snapshot().Filters
}

func (cc *CatalogContainer) GetFilter(id string) (entities.FilterDefinition, error) {
	return find(cc.Snapshot().Filters, id, filterID, "filter")
}

func (cc *CatalogContainer) CreateFilter(f entities.FilterDefinition) (entities.FilterDefinition, error) {
	var created entities.FilterDefinition
	err := cc.mutate(func(cat *entities.Catalog) error {
		var err error
		created, err = create(&cat.Filters, f.Clone(), filterID, func(f *entities.FilterDefinition, id string) { f.ID = id }, "filter")
		return err
	})
	return created, err
}

func (cc *CatalogContainer) UpdateFilter(f entities.FilterDefinition) (entities.FilterDefinition, error) {
	err := cc.mutate(func(cat *entities.Catalog) error {
		return update(cat.Filters, f.Clone(), filterID, "filter")
	})
	return f, err
}

func (cc *CatalogContainer) DeleteFilter(id string) error {
	return cc.mutate(func(cat *entities.Catalog) error {
		return remove(&cat.Filters, id, filterID, "filter")
	})
}

// Users

func (cc *CatalogContainer) GetUsers() []entities.User {
	return cc.Snapshot().Users
}
