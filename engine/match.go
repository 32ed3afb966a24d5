package engine

import (
	"strings"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/filters"
)

// BudgetKey is the only range filter the engine evaluates. Its selection is a
// maximum monthly price compared against HealthPlan.Price, not against the
// plan's attribute map.
const BudgetKey = "monthlyBudget"

type criterion struct {
	def   entities.FilterDefinition
	value entities.Value
}

// Match returns the plans of catalog that contain query (in the plan name, the
// company name or a covered medicine name) and satisfy every present selection.
// Input order is preserved.
func Match(catalog entities.Catalog, query string, selections entities.Selections) []entities.HealthPlan {
	out := make([]entities.HealthPlan, 0, len(catalog.Plans))
	if len(catalog.Plans) == 0 {
		return out
	}

	lookup := NewLookup(catalog.Companies, catalog.Medicines)
	criteria := resolveCriteria(filters.NewRegistry(catalog.Filters), selections)
	needle := fold(strings.TrimSpace(query))

	for _, plan := range catalog.Plans {
		if needle != "" && !matchesQuery(plan, needle, lookup) {
			continue
		}
		if !satisfiesAll(plan, criteria) {
			continue
		}
		out = append(out, plan)
	}
	return out
}

// resolveCriteria drops absent selections and selections whose key has no
// definition; neither constrains the result.
func resolveCriteria(registry *filters.Registry, selections entities.Selections) []criterion {
	criteria := make([]criterion, 0, len(selections))
	for key, value := range selections {
		if !value.IsPresent() {
			continue
		}
		def, ok := registry.Lookup(key)
		if !ok {
			continue
		}
		criteria = append(criteria, criterion{def: def, value: value})
	}
	return criteria
}

func matchesQuery(plan entities.HealthPlan, needle string, lookup *Lookup) bool {
	if containsFolded(plan.Name, needle) {
		return true
	}

	// an unresolved company simply cannot match by name
	if company, err := lookup.Company(plan.CompanyID); err == nil && containsFolded(company.Name, needle) {
		return true
	}

	for _, id := range plan.CoversMedicines {
		med, err := lookup.Medicine(id)
		if err != nil {
			continue
		}
		if containsFolded(med.Name, needle) {
			return true
		}
	}
	return false
}

func satisfiesAll(plan entities.HealthPlan, criteria []criterion) bool {
	for _, c := range criteria {
		if !satisfies(plan, c) {
			return false
		}
	}
	return true
}

func satisfies(plan entities.HealthPlan, c criterion) bool {
	planValue := plan.Filters.Get(c.def.Key)

	switch c.def.Kind {
	case entities.KindDropdown:
		return planValue.Equal(c.value) || planValue.Contains(c.value)

	case entities.KindMultiselect:
		if c.value.Shape() != entities.ShapeList {
			return true
		}
		return planValue.Intersects(c.value)

	case entities.KindBoolean:
		return planValue.Equal(c.value)

	case entities.KindRange:
		if c.def.Key != BudgetKey {
			return true
		}
		ceiling, ok := c.value.AsNumber()
		if !ok {
			return true
		}
		return plan.Price <= ceiling

	case entities.KindText:
		return true

	default:
		return true
	}
}
