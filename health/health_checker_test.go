package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/giygas/healthplans-api/entities"
)

// mockCatalogReader for testing
type mockCatalogReader struct {
	catalog     entities.Catalog
	lastUpdated time.Time
	version     uint64
}

func (m *mockCatalogReader) Snapshot() entities.Catalog { return m.catalog }

func (m *mockCatalogReader) Version() uint64 { return m.version }

func (m *mockCatalogReader) GetLastUpdated() time.Time { return m.lastUpdated }

func healthyCatalog() entities.Catalog {
	return entities.Catalog{
		Companies: []entities.Company{
			{ID: "c1", Name: "Acme", Active: true},
			{ID: "c2", Name: "Closed", Active: false},
		},
		Medicines: []entities.Medicine{{ID: "m1", Name: "Metformin"}},
		Plans: []entities.HealthPlan{
			{ID: "p1", Name: "Basic", CompanyID: "c1", Active: true},
			{ID: "p2", Name: "Gone", CompanyID: "c2", Active: true},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	inactive := healthyCatalog()
	inactive.Plans[0].Active = false

	tests := []struct {
		name        string
		reader      *mockCatalogReader
		wantStatus  string
		wantHTTP    int
		wantActive  int
		wantUpdated bool
	}{
		{
			name:       "never loaded",
			reader:     &mockCatalogReader{catalog: healthyCatalog()},
			wantStatus: "unhealthy",
			wantHTTP:   http.StatusServiceUnavailable,
			wantActive: 1,
		},
		{
			name:        "loaded but empty",
			reader:      &mockCatalogReader{lastUpdated: time.Now()},
			wantStatus:  "unhealthy",
			wantHTTP:    http.StatusServiceUnavailable,
			wantUpdated: true,
		},
		{
			name:        "no effectively active plan",
			reader:      &mockCatalogReader{catalog: inactive, lastUpdated: time.Now()},
			wantStatus:  "degraded",
			wantHTTP:    http.StatusServiceUnavailable,
			wantUpdated: true,
		},
		{
			name:        "healthy",
			reader:      &mockCatalogReader{catalog: healthyCatalog(), lastUpdated: time.Now().Add(-3 * time.Hour), version: 7},
			wantStatus:  "healthy",
			wantHTTP:    http.StatusOK,
			wantActive:  1,
			wantUpdated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker(tt.reader)
			status, data, httpStatus := checker.HealthCheck()

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if httpStatus != tt.wantHTTP {
				t.Errorf("httpStatus = %d, want %d", httpStatus, tt.wantHTTP)
			}
			if got := data["active_plans"]; got != tt.wantActive {
				t.Errorf("active_plans = %v, want %d", got, tt.wantActive)
			}
			if got := data["plans"]; got != len(tt.reader.catalog.Plans) {
				t.Errorf("plans = %v, want %d", got, len(tt.reader.catalog.Plans))
			}
			if got := data["catalog_version"]; got != tt.reader.version {
				t.Errorf("catalog_version = %v, want %d", got, tt.reader.version)
			}

			_, hasUpdate := data["last_update"]
			if hasUpdate != tt.wantUpdated {
				t.Errorf("last_update present = %v, want %v", hasUpdate, tt.wantUpdated)
			}
		})
	}
}

func TestHealthCheckCatalogAge(t *testing.T) {
	reader := &mockCatalogReader{catalog: healthyCatalog(), lastUpdated: time.Now().Add(-90 * time.Minute)}

	_, data, _ := NewHealthChecker(reader).HealthCheck()

	age, ok := data["catalog_age_hours"].(float64)
	if !ok {
		t.Fatalf("catalog_age_hours missing or not a float: %v", data["catalog_age_hours"])
	}
	if age != 1.5 {
		t.Errorf("catalog_age_hours = %v, want 1.5", age)
	}
}
