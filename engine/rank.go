package engine

import (
	"cmp"
	"slices"

	"github.com/giygas/healthplans-api/entities"
)

type rankedPlan struct {
	plan   entities.HealthPlan
	active bool
}

// Rank orders plans with effectively active plans first, then by priority
// descending. The sort is stable and plans is left untouched.
func Rank(plans []entities.HealthPlan, companies []entities.Company) []entities.HealthPlan {
	lookup := NewLookup(companies, nil)

	items := make([]rankedPlan, len(plans))
	for i, plan := range plans {
		items[i] = rankedPlan{plan: plan, active: lookup.EffectiveActive(plan)}
	}

	slices.SortStableFunc(items, func(a, b rankedPlan) int {
		if a.active != b.active {
			if a.active {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.plan.Priority, a.plan.Priority)
	})

	out := make([]entities.HealthPlan, len(items))
	for i := range items {
		out[i] = items[i].plan
	}
	return out
}
