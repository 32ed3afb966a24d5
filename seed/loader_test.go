package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	catalog, err := NewLoader("").Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalog.Companies, 3)
	assert.Len(t, catalog.Medicines, 8)
	assert.Len(t, catalog.Filters, 6)
	assert.Len(t, catalog.Plans, 5)
	assert.Len(t, catalog.Users, 2)

	plan3 := catalog.Plans[2]
	assert.Equal(t, "plan-3", plan3.ID)
	assert.Equal(t, "plan-4", plan3.BackupPlanID)
	assert.False(t, plan3.Active)
	assert.True(t, plan3.Filters.Get("conditions").ContainsString("diabetes"))
	assert.True(t, plan3.Filters.Get("ageGroup").Equal(entities.String("61+")))

	budget, ok := catalog.Plans[0].Filters.Get("monthlyBudget").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 199.99, budget)

	assert.Equal(t, entities.RoleAdmin, catalog.Users[0].Role)
	assert.False(t, catalog.Companies[0].CreatedAt.IsZero())
}

func TestEmbeddedCatalogIsConsistent(t *testing.T) {
	catalog, err := NewLoader("").Load(context.Background())
	require.NoError(t, err)

	report := validation.CheckIntegrity(catalog)
	assert.Zero(t, report.IssueCount(), "seed catalog should be clean: %+v", report)
}

func TestLoadFromFileDropsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
companies:
  - {id: c1, name: Acme, active: true}
  - {id: c2, name: ""}
plans:
  - {id: p1, name: Basic, companyId: c1, price: 10}
  - {id: p2, name: Broken, price: 10}
filters:
  - {id: f1, name: City, key: city, type: dropdown, options: [{id: o1, label: A, value: a}]}
  - {id: f2, name: Town, key: city, type: text}
  - {id: f3, name: Odd, key: odd, type: slider}
`), 0o600))

	catalog, err := NewLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalog.Companies, 1)
	assert.Len(t, catalog.Plans, 1)
	require.Len(t, catalog.Filters, 1)
	assert.Equal(t, "f1", catalog.Filters[0].ID)
}

func TestLoadErrors(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.ErrorContains(t, err, "failed to read seed file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plans:\n  - {id: p1, nmae: typo}\n"), 0o600))
	_, err = NewLoader(path).Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse seed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLoader("").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecodeKeepsValueShapes(t *testing.T) {
	catalog, err := NewLoader("").Load(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, catalog))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Plans, len(catalog.Plans))
	for i := range catalog.Plans {
		for key, want := range catalog.Plans[i].Filters {
			got := decoded.Plans[i].Filters.Get(key)
			assert.Equal(t, want.Shape(), got.Shape(), "plan %s key %s", catalog.Plans[i].ID, key)
		}
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	catalog, err := Decode(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, catalog.Plans)
}
