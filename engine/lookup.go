// Package engine implements plan matching, ranking and recommendation over a
// catalog snapshot. Every function is pure: inputs are never mutated and
// missing references degrade to a documented neutral default instead of failing.
package engine

import (
	"errors"
	"strings"

	"github.com/giygas/healthplans-api/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound is returned by Lookup accessors for an unresolved id
var ErrNotFound = errors.New("not found")

// Lookup resolves company and medicine ids. When an id is declared twice the
// first record wins.
type Lookup struct {
	companies map[string]entities.Company
	medicines map[string]entities.Medicine
}

func NewLookup(companies []entities.Company, medicines []entities.Medicine) *Lookup {
	l := &Lookup{
		companies: make(map[string]entities.Company, len(companies)),
		medicines: make(map[string]entities.Medicine, len(medicines)),
	}
	for _, c := range companies {
		if _, ok := l.companies[c.ID]; !ok {
			l.companies[c.ID] = c
		}
	}
	for _, m := range medicines {
		if _, ok := l.medicines[m.ID]; !ok {
			l.medicines[m.ID] = m
		}
	}
	return l
}

func (l *Lookup) Company(id string) (entities.Company, error) {
	if c, ok := l.companies[id]; ok {
		return c, nil
	}
	return entities.Company{}, ErrNotFound
}

func (l *Lookup) Medicine(id string) (entities.Medicine, error) {
	if m, ok := l.medicines[id]; ok {
		return m, nil
	}
	return entities.Medicine{}, ErrNotFound
}

// EffectiveActive reports whether both the plan and its company are active.
func (l *Lookup) EffectiveActive(plan entities.HealthPlan) bool {
	if !plan.Active {
		return false
	}
	company, err := l.Company(plan.CompanyID)
	if err != nil {
		// unresolved company counts as inactive
		return false
	}
	return company.Active
}

// CoveredMedicines resolves the plan's covered ids in order, skipping dangling ones.
func (l *Lookup) CoveredMedicines(plan entities.HealthPlan) []entities.Medicine {
	out := make([]entities.Medicine, 0, len(plan.CoversMedicines))
	for _, id := range plan.CoversMedicines {
		med, err := l.Medicine(id)
		if err != nil {
			continue
		}
		out = append(out, med)
	}
	return out
}

// fold lower-cases s for case-insensitive substring tests.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

func containsFolded(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}
