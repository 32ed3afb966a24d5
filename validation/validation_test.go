package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/giygas/healthplans-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	verr, ok := AsError(err)
	require.True(t, ok, "expected *validation.Error, got %v", err)
	return verr.Fields
}

func TestValidatePlanRequiredFields(t *testing.T) {
	err := ValidatePlan(entities.HealthPlan{Price: -1})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "is required", fields["companyId"])
	assert.Contains(t, fields["price"], "greater than or equal to 0")

	assert.NoError(t, ValidatePlan(entities.HealthPlan{Name: "Plan", CompanyID: "c1", Price: 0}))
}

func TestValidateCompany(t *testing.T) {
	assert.NoError(t, ValidateCompany(entities.Company{Name: "MediSure", Countries: []string{"US", "CA"}}))

	fields := fieldsOf(t, ValidateCompany(entities.Company{
		ContactEmail: "not-an-email",
		Countries:    []string{"USA"},
	}))
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["contactEmail"])
	assert.Equal(t, "must be exactly 2 characters", fields["countries[0]"])
}

func TestValidateMedicine(t *testing.T) {
	negative := -5.0
	fields := fieldsOf(t, ValidateMedicine(entities.Medicine{Price: &negative}))
	assert.Equal(t, "is required", fields["name"])
	assert.Contains(t, fields, "price")

	assert.NoError(t, ValidateMedicine(entities.Medicine{Name: "Metformin"}))
}

func TestValidateFilter(t *testing.T) {
	existing := []entities.FilterDefinition{{ID: "f1", Name: "City", Key: "city", Kind: entities.KindText}}
	opts := []entities.FilterOption{{Label: "Yes", Value: "yes"}}

	tests := []struct {
		name      string
		def       entities.FilterDefinition
		wantField string
	}{
		{"valid", entities.FilterDefinition{Name: "Coverage", Key: "coverage", Kind: entities.KindDropdown, Options: opts}, ""},
		{"same id may keep its key", entities.FilterDefinition{ID: "f1", Name: "City", Key: "city", Kind: entities.KindText}, ""},
		{"missing name", entities.FilterDefinition{Key: "x", Kind: entities.KindText}, "name"},
		{"unknown type", entities.FilterDefinition{Name: "X", Key: "x", Kind: "slider"}, "type"},
		{"dropdown without options", entities.FilterDefinition{Name: "X", Key: "x", Kind: entities.KindDropdown}, "options"},
		{"option without label", entities.FilterDefinition{Name: "X", Key: "x", Kind: entities.KindDropdown,
			Options: []entities.FilterOption{{Value: "v"}}}, "options[0].label"},
		{"duplicate key", entities.FilterDefinition{ID: "f2", Name: "Town", Key: "city", Kind: entities.KindText}, "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.def, existing)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tt.wantField)
		})
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Message: "Validation failed", Fields: map[string]string{"b": "bad", "a": "worse"}}
	assert.Equal(t, "Validation failed: a: worse; b: bad", err.Error())

	wrapped := errors.Join(errors.New("context"), err)
	_, ok := AsError(wrapped)
	assert.True(t, ok)
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "diabetes care", false},
		{"unicode", "Santé", false},
		{"too long", strings.Repeat("a", 201), true},
		{"control char", "abc\x00", true},
		{"script", "<SCRIPT>alert(1)", true},
		{"mongo operator", "{$ne: 1}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFilterKey(t *testing.T) {
	assert.NoError(t, ValidateFilterKey("monthlyBudget"))
	assert.NoError(t, ValidateFilterKey("age_group-2"))
	assert.Error(t, ValidateFilterKey(""))
	assert.Error(t, ValidateFilterKey("a b"))
	assert.Error(t, ValidateFilterKey("../etc"))
	assert.Error(t, ValidateFilterKey(strings.Repeat("k", 65)))
}

func TestCheckIntegrityCleanCatalog(t *testing.T) {
	catalog := entities.Catalog{
		Companies: []entities.Company{{ID: "c1"}},
		Medicines: []entities.Medicine{{ID: "m1", CompanyIDs: []string{"c1"}}},
		Filters:   []entities.FilterDefinition{{Key: "city", Kind: entities.KindDropdown}},
		Plans: []entities.HealthPlan{
			{ID: "p1", CompanyID: "c1", CoversMedicines: []string{"m1"}, BackupPlanID: "p2",
				Filters: entities.Attributes{"city": entities.List("a", "b")}},
			{ID: "p2", CompanyID: "c1", Filters: entities.Attributes{"city": entities.String("a")}},
		},
	}

	report := CheckIntegrity(catalog)
	assert.Zero(t, report.IssueCount())
}

func TestCheckIntegrityFindsGaps(t *testing.T) {
	catalog := entities.Catalog{
		Companies: []entities.Company{{ID: "c1"}},
		Medicines: []entities.Medicine{{ID: "m1", CompanyIDs: []string{"c1", "gone"}}},
		Filters: []entities.FilterDefinition{
			{Key: "family", Kind: entities.KindBoolean},
			{Key: "family", Kind: entities.KindText},
		},
		Plans: []entities.HealthPlan{
			{ID: "p1", CompanyID: "deleted", CoversMedicines: []string{"m1", "m9"}, BackupPlanID: "p2",
				Filters: entities.Attributes{"family": entities.String("yes"), "colour": entities.String("red")}},
			{ID: "p2", CompanyID: "c1", BackupPlanID: "p1"},
			{ID: "p3", CompanyID: "c1", BackupPlanID: "p3"},
			{ID: "p4", CompanyID: "c1", BackupPlanID: "nowhere"},
			{ID: "p5", CompanyID: "c1", BackupPlanID: "p1"},
		},
	}

	report := CheckIntegrity(catalog)

	assert.Equal(t, []string{"p1"}, report.PlansWithUnknownCompany)
	assert.Equal(t, map[string][]string{"p1": {"m9"}}, report.DanglingMedicineRefs)
	assert.Equal(t, []string{"p4"}, report.DanglingBackupPlans)
	assert.Equal(t, [][]string{{"p1", "p2"}, {"p3"}}, report.BackupCycles)
	assert.Equal(t, []string{"family"}, report.DuplicateFilterKeys)
	assert.Equal(t, map[string][]string{"p1": {"colour"}}, report.UndefinedFilterKeys)
	require.Len(t, report.NonConformingValues, 1)
	assert.Equal(t, ValueIssue{PlanID: "p1", Key: "family", Expected: "boolean", Got: "string"}, report.NonConformingValues[0])
	assert.Equal(t, map[string][]string{"m1": {"gone"}}, report.MedicinesWithUnknownCorp)
	assert.Equal(t, 9, report.IssueCount())
}
