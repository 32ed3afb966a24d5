package engine

import (
	"slices"

	"github.com/giygas/healthplans-api/entities"
)

// ConditionsKey is the selection key read by the recommender
const ConditionsKey = "conditions"

// ConditionBoost lifts plans for one medical condition: first plans tagged with
// the condition, then plans covering a medicine whose name contains MedicineTerm.
type ConditionBoost struct {
	Condition    string
	MedicineTerm string
}

// DefaultBoosts is the boost table used by Recommend
var DefaultBoosts = []ConditionBoost{
	{Condition: "diabetes", MedicineTerm: "diabetes"},
}

// Recommender re-ranks an already ranked list from a condition boost table.
// When several boosts are active they compare in table order.
type Recommender struct {
	boosts []ConditionBoost
}

func NewRecommender(boosts []ConditionBoost) *Recommender {
	return &Recommender{boosts: slices.Clone(boosts)}
}

var defaultRecommender = NewRecommender(DefaultBoosts)

// Recommend applies DefaultBoosts
func Recommend(plans []entities.HealthPlan, medicines []entities.Medicine, selections entities.Selections) []entities.HealthPlan {
	return defaultRecommender.Recommend(plans, medicines, selections)
}

// Recommend returns plans unchanged unless a boosted condition is selected
// under ConditionsKey (as a string or a list), in which case it returns a
// stably re-sorted copy.
func (r *Recommender) Recommend(plans []entities.HealthPlan, medicines []entities.Medicine, selections entities.Selections) []entities.HealthPlan {
	selected := selections.Get(ConditionsKey).Normalize()

	var active []ConditionBoost
	for _, b := range r.boosts {
		if slices.Contains(selected, b.Condition) {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return plans
	}

	lookup := NewLookup(nil, medicines)
	type scored struct {
		plan  entities.HealthPlan
		flags []bool
	}

	items := make([]scored, len(plans))
	for i, plan := range plans {
		flags := make([]bool, 0, 2*len(active))
		for _, b := range active {
			flags = append(flags,
				plan.Filters.Get(ConditionsKey).ContainsString(b.Condition),
				coversMedicineNamed(plan, fold(b.MedicineTerm), lookup),
			)
		}
		items[i] = scored{plan: plan, flags: flags}
	}

	slices.SortStableFunc(items, func(a, b scored) int {
		for i := range a.flags {
			if a.flags[i] != b.flags[i] {
				if a.flags[i] {
					return -1
				}
				return 1
			}
		}
		return 0
	})

	out := make([]entities.HealthPlan, len(items))
	for i := range items {
		out[i] = items[i].plan
	}
	return out
}

func coversMedicineNamed(plan entities.HealthPlan, term string, lookup *Lookup) bool {
	for _, id := range plan.CoversMedicines {
		med, err := lookup.Medicine(id)
		if err != nil {
			// dangling medicine ids are skipped
			continue
		}
		if containsFolded(med.Name, term) {
			return true
		}
	}
	return false
}
