package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/favorites"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/validation"
	"github.com/spf13/cobra"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		raw     string
		key     string
		want    entities.Value
		wantErr bool
	}{
		{raw: "city=new-york", key: "city", want: entities.String("new-york")},
		{raw: `city="chicago"`, key: "city", want: entities.String("chicago")},
		{raw: "monthlyBudget=300", key: "monthlyBudget", want: entities.Number(300)},
		{raw: "familyCoverage=true", key: "familyCoverage", want: entities.Bool(true)},
		{raw: " ageGroup =61+", key: "ageGroup", want: entities.String("61+")},
		{raw: "note=a=b", key: "note", want: entities.String("a=b")},
		{raw: "novalue", wantErr: true},
		{raw: "=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, value, err := parseSelection(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSelection(%q) expected an error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSelection(%q) error = %v", tt.raw, err)
			}
			if key != tt.key {
				t.Errorf("key = %q, want %q", key, tt.key)
			}
			if !value.Equal(tt.want) {
				t.Errorf("value = %#v, want %#v", value, tt.want)
			}
		})
	}
}

func TestParseSelectionList(t *testing.T) {
	_, value, err := parseSelection(`conditions=["diabetes","asthma"]`)
	if err != nil {
		t.Fatal(err)
	}
	items, ok := value.AsList()
	if !ok || !slices.Equal(items, []string{"diabetes", "asthma"}) {
		t.Errorf("value = %#v, want a two-item list", value)
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	logging.InitLogger("")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func searchIDs(t *testing.T, args ...string) []string {
	t.Helper()
	out, err := execute(t, newSearchCommand(), append(args, "--json")...)
	if err != nil {
		t.Fatalf("search %v: %v", args, err)
	}
	var plans []entities.HealthPlan
	if err := json.Unmarshal([]byte(out), &plans); err != nil {
		t.Fatalf("search output is not JSON: %v", err)
	}
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}

func TestSearchCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"everything", nil, []string{"plan-2", "plan-5", "plan-1", "plan-4", "plan-3"}},
		{"budget", []string{"-s", "monthlyBudget=300"}, []string{"plan-5", "plan-1", "plan-4"}},
		{"query and budget", []string{"-q", "metformin", "--select", "monthlyBudget=300"}, []string{"plan-1", "plan-4"}},
		{"conditions", []string{"-s", `conditions=["diabetes","asthma"]`}, []string{"plan-5", "plan-4", "plan-3"}},
		{"recommended", []string{"-s", `conditions=["diabetes","asthma"]`, "--recommend"}, []string{"plan-4", "plan-3", "plan-5"}},
		{"no match", []string{"-q", "dental"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchIDs(t, tt.args...); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchCommandTable(t *testing.T) {
	out, err := execute(t, newSearchCommand(), "-q", "respiratory")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header and one plan:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"plan-5", "Respiratory Care Plan", "LifeWell Insurance", "249.99", "true"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q does not contain %q", lines[1], want)
		}
	}
}

func TestSearchCommandErrors(t *testing.T) {
	if _, err := execute(t, newSearchCommand(), "-s", "broken"); err == nil {
		t.Error("a selection without = should fail")
	}
	if _, err := execute(t, newSearchCommand(), "--seed", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("a missing seed file should fail")
	}
}

func TestAuditCommand(t *testing.T) {
	out, err := execute(t, newAuditCommand(), "--json", "--strict")
	if err != nil {
		t.Fatalf("embedded catalog audit: %v", err)
	}
	var report validation.IntegrityReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("audit output is not JSON: %v", err)
	}
	if report.IssueCount() != 0 {
		t.Errorf("issues = %d, want 0", report.IssueCount())
	}

	out, err = execute(t, newAuditCommand())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "plansWithUnknownCompany:") {
		t.Errorf("YAML report missing keys:\n%s", out)
	}
}

func TestAuditCommandStrict(t *testing.T) {
	seedFile := filepath.Join(t.TempDir(), "seed.yaml")
	doc := `
companies:
  - { id: c1, name: Acme, active: true }
plans:
  - { id: p1, name: Orphan, companyId: ghost, price: 10, active: true }
`
	if err := os.WriteFile(seedFile, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, newAuditCommand(), "--seed", seedFile); err != nil {
		t.Errorf("non-strict audit should succeed: %v", err)
	}
	_, err := execute(t, newAuditCommand(), "--seed", seedFile, "--strict")
	if err == nil || !strings.Contains(err.Error(), "1 integrity issues") {
		t.Errorf("strict audit error = %v", err)
	}
}

func TestOpenFavoritesStore(t *testing.T) {
	logging.InitLogger("")
	ctx := context.Background()

	store, closeStore, err := openFavoritesStore(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	closeStore()
	if _, ok := store.(*favorites.MemoryStore); !ok {
		t.Errorf("store = %T, want *favorites.MemoryStore", store)
	}

	mr := miniredis.RunT(t)
	store, closeStore, err = openFavoritesStore(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer closeStore()
	if _, ok := store.(*favorites.RedisStore); !ok {
		t.Errorf("store = %T, want *favorites.RedisStore", store)
	}

	mr.Close()
	if _, _, err := openFavoritesStore(ctx, "redis://"+mr.Addr()); err == nil {
		t.Error("an unreachable Redis should fail")
	}
}
