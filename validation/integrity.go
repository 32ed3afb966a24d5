package validation

import (
	"sort"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/filters"
)

// ValueIssue is a plan attribute whose shape does not fit its definition
type ValueIssue struct {
	PlanID   string `json:"planId" yaml:"planId"`
	Key      string `json:"key" yaml:"key"`
	Expected string `json:"expected" yaml:"expected"`
	Got      string `json:"got" yaml:"got"`
}

// IntegrityReport lists the soft referential gaps of a catalog. None of them
// breaks matching or ranking; they are surfaced so an admin can clean up.
type IntegrityReport struct {
	PlansWithUnknownCompany  []string            `json:"plansWithUnknownCompany" yaml:"plansWithUnknownCompany"`
	DanglingMedicineRefs     map[string][]string `json:"danglingMedicineRefs" yaml:"danglingMedicineRefs"`
	DanglingBackupPlans      []string            `json:"danglingBackupPlans" yaml:"danglingBackupPlans"`
	BackupCycles             [][]string          `json:"backupCycles" yaml:"backupCycles"`
	DuplicateFilterKeys      []string            `json:"duplicateFilterKeys" yaml:"duplicateFilterKeys"`
	UndefinedFilterKeys      map[string][]string `json:"undefinedFilterKeys" yaml:"undefinedFilterKeys"`
	NonConformingValues      []ValueIssue        `json:"nonConformingValues" yaml:"nonConformingValues"`
	MedicinesWithUnknownCorp map[string][]string `json:"medicinesWithUnknownCompany" yaml:"medicinesWithUnknownCompany"`
}

// IssueCount is the total number of findings
func (r *IntegrityReport) IssueCount() int {
	n := len(r.PlansWithUnknownCompany) + len(r.DanglingBackupPlans) + len(r.BackupCycles) +
		len(r.DuplicateFilterKeys) + len(r.NonConformingValues)
	for _, ids := range r.DanglingMedicineRefs {
		n += len(ids)
	}
	for _, keys := range r.UndefinedFilterKeys {
		n += len(keys)
	}
	for _, ids := range r.MedicinesWithUnknownCorp {
		n += len(ids)
	}
	return n
}

// CheckIntegrity builds the integrity report of catalog
func CheckIntegrity(catalog entities.Catalog) *IntegrityReport {
	report := &IntegrityReport{
		DanglingMedicineRefs:     make(map[string][]string),
		UndefinedFilterKeys:      make(map[string][]string),
		MedicinesWithUnknownCorp: make(map[string][]string),
	}

	companies := make(map[string]struct{}, len(catalog.Companies))
	for _, c := range catalog.Companies {
		companies[c.ID] = struct{}{}
	}
	medicines := make(map[string]struct{}, len(catalog.Medicines))
	for _, m := range catalog.Medicines {
		medicines[m.ID] = struct{}{}
		for _, cid := range m.CompanyIDs {
			if _, ok := companies[cid]; !ok {
				report.MedicinesWithUnknownCorp[m.ID] = append(report.MedicinesWithUnknownCorp[m.ID], cid)
			}
		}
	}
	plans := make(map[string]entities.HealthPlan, len(catalog.Plans))
	for _, p := range catalog.Plans {
		plans[p.ID] = p
	}

	registry := filters.NewRegistry(catalog.Filters)
	report.DuplicateFilterKeys = registry.DuplicateKeys()

	for _, p := range catalog.Plans {
		if _, ok := companies[p.CompanyID]; !ok {
			report.PlansWithUnknownCompany = append(report.PlansWithUnknownCompany, p.ID)
		}
		for _, mid := range p.CoversMedicines {
			if _, ok := medicines[mid]; !ok {
				report.DanglingMedicineRefs[p.ID] = append(report.DanglingMedicineRefs[p.ID], mid)
			}
		}
		if p.BackupPlanID != "" {
			if _, ok := plans[p.BackupPlanID]; !ok {
				report.DanglingBackupPlans = append(report.DanglingBackupPlans, p.ID)
			}
		}

		keys := make([]string, 0, len(p.Filters))
		for key := range p.Filters {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := p.Filters[key]
			def, ok := registry.Lookup(key)
			if !ok {
				report.UndefinedFilterKeys[p.ID] = append(report.UndefinedFilterKeys[p.ID], key)
				continue
			}
			if !filters.Conforms(def, value) {
				report.NonConformingValues = append(report.NonConformingValues, ValueIssue{
					PlanID:   p.ID,
					Key:      key,
					Expected: def.Kind.ValueShape().String(),
					Got:      value.Shape().String(),
				})
			}
		}
	}

	report.BackupCycles = findBackupCycles(catalog.Plans, plans)
	return report
}

// findBackupCycles follows backup references from every plan and records each
// cycle once, starting from the first plan of the catalog that lies on it
func findBackupCycles(order []entities.HealthPlan, plans map[string]entities.HealthPlan) [][]string {
	var cycles [][]string
	reported := make(map[string]bool)

	for _, start := range order {
		if reported[start.ID] {
			continue
		}
		path := []string{}
		position := make(map[string]int)
		current := start.ID
		for current != "" {
			if i, seen := position[current]; seen {
				cycle := append([]string(nil), path[i:]...)
				alreadyKnown := false
				for _, id := range cycle {
					if reported[id] {
						alreadyKnown = true
					}
					reported[id] = true
				}
				if !alreadyKnown {
					cycles = append(cycles, cycle)
				}
				break
			}
			if reported[current] {
				break
			}
			plan, ok := plans[current]
			if !ok {
				break
			}
			position[current] = len(path)
			path = append(path, current)
			current = plan.BackupPlanID
		}
	}
	return cycles
}
