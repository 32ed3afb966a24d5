package handlers

import (
	"net/http"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/metrics"
	"github.com/giygas/healthplans-api/validation"
	"github.com/go-chi/chi/v5"
)

// Admin endpoints are not access controlled.

func (h *HTTPHandlerImpl) mutated(entity, op, id string) {
	metrics.RecordMutation(entity, op)
	logging.Info("Catalog updated", "entity", entity, "op", op, "id", id, "version", h.store.Version())
}

// Companies

func (h *HTTPHandlerImpl) AdminListCompanies(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.Snapshot().Companies)
}

func (h *HTTPHandlerImpl) AdminCreateCompany(w http.ResponseWriter, r *http.Request) {
	var c entities.Company
	if err := decodeJSON(r, &c); err != nil {
		h.respondWithErr(w, err)
		return
	}
	if err := validation.ValidateCompany(c); err != nil {
		h.respondWithErr(w, err)
		return
	}
	created, err := h.store.CreateCompany(c)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("company", "create", created.ID)
	h.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandlerImpl) AdminUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var c entities.Company
	if err := decodeJSON(r, &c); err != nil {
		h.respondWithErr(w, err)
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := validation.ValidateCompany(c); err != nil {
		h.respondWithErr(w, err)
		return
	}
	updated, err := h.store.UpdateCompany(c)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("company", "update", updated.ID)
	h.RespondWithJSON(w, http.StatusOK, updated)
}

// AdminDeleteCompany removes the company only; its plans stay and rank as inactive.
func (h *HTTPHandlerImpl) AdminDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCompany(id); err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("company", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// AdminCompanyMedicines lists the medicines available from a company
func (h *HTTPHandlerImpl) AdminCompanyMedicines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetCompany(id); err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, h.store.MedicinesByCompany(id))
}

// Medicines

func (h *HTTPHandlerImpl) AdminListMedicines(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.Snapshot().Medicines)
}

func (h *HTTPHandlerImpl) AdminCreateMedicine(w http.ResponseWriter, r *http.Request) {
	var m entities.Medicine
	if err := decodeJSON(r, &m); err != nil {
		h.respondWithErr(w, err)
		return
	}
	if err := validation.ValidateMedicine(m); err != nil {
		h.respondWithErr(w, err)
		return
	}
	created, err := h.store.CreateMedicine(m)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("medicine", "create", created.ID)
	h.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandlerImpl) AdminUpdateMedicine(w http.ResponseWriter, r *http.Request) {
	var m entities.Medicine
	if err := decodeJSON(r, &m); err != nil {
		h.respondWithErr(w, err)
		return
	}
	m.ID = chi.URLParam(r, "id")
	if err := validation.ValidateMedicine(m); err != nil {
		h.respondWithErr(w, err)
		return
	}
	updated, err := h.store.UpdateMedicine(m)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("medicine", "update", updated.ID)
	h.RespondWithJSON(w, http.StatusOK, updated)
}

// AdminDeleteMedicine removes the medicine and its id from every plan
func (h *HTTPHandlerImpl) AdminDeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteMedicine(id); err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("medicine", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// Plans

// planRequest is the admin plan form. Price is a pointer so that a missing
// price is reported instead of read as zero.
type planRequest struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CompanyID       string              `json:"companyId"`
	CoverageSummary string              `json:"coverageSummary"`
	Price           *float64            `json:"price" validate:"required,gte=0"`
	Active          bool                `json:"active"`
	Priority        int                 `json:"priority"`
	CoversMedicines []string            `json:"coversMedicines"`
	Filters         entities.Attributes `json:"filters"`
	BackupPlanID    string              `json:"backupPlanId"`
}

func (req planRequest) toPlan(id string) entities.HealthPlan {
	plan := entities.HealthPlan{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		CompanyID:       req.CompanyID,
		CoverageSummary: req.CoverageSummary,
		Active:          req.Active,
		Priority:        req.Priority,
		CoversMedicines: req.CoversMedicines,
		Filters:         req.Filters,
		BackupPlanID:    req.BackupPlanID,
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if plan.CoversMedicines == nil {
		plan.CoversMedicines = []string{}
	}
	if plan.Filters == nil {
		plan.Filters = entities.Attributes{}
	}
	return plan
}

func decodePlan(r *http.Request, id string) (entities.HealthPlan, error) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		return entities.HealthPlan{}, err
	}
	plan := req.toPlan(id)

	// report every missing field at once
	planErr := validation.ValidatePlan(plan)
	reqErr := validation.Struct(req)
	if planErr == nil && reqErr == nil {
		return plan, nil
	}
	merged := &validation.Error{Message: "Validation failed", Fields: map[string]string{}}
	for _, err := range []error{planErr, reqErr} {
		if err == nil {
			continue
		}
		verr, ok := validation.AsError(err)
		if !ok {
			return entities.HealthPlan{}, err
		}
		for k, v := range verr.Fields {
			merged.Fields[k] = v
		}
	}
	return entities.HealthPlan{}, merged
}

func (h *HTTPHandlerImpl) AdminListPlans(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.Snapshot().Plans)
}

func (h *HTTPHandlerImpl) AdminCreatePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := decodePlan(r, "")
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	created, err := h.store.CreatePlan(plan)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("plan", "create", created.ID)
	h.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandlerImpl) AdminUpdatePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := decodePlan(r, chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	updated, err := h.store.UpdatePlan(plan)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("plan", "update", updated.ID)
	h.RespondWithJSON(w, http.StatusOK, updated)
}

// AdminDeletePlan removes the plan. Favorites and backup references to it are
// left dangling.
func (h *HTTPHandlerImpl) AdminDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeletePlan(id); err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("plan", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// Filters

func (h *HTTPHandlerImpl) AdminListFilters(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.Snapshot().Filters)
}

func (h *HTTPHandlerImpl) AdminCreateFilter(w http.ResponseWriter, r *http.Request) {
	var def entities.FilterDefinition
	if err := decodeJSON(r, &def); err != nil {
		h.respondWithErr(w, err)
		return
	}
	if err := validation.ValidateFilter(def, h.store.Snapshot().Filters); err != nil {
		h.respondWithErr(w, err)
		return
	}
	created, err := h.store.CreateFilter(def)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("filter", "create", created.ID)
	h.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandlerImpl) AdminUpdateFilter(w http.ResponseWriter, r *http.Request) {
	var def entities.FilterDefinition
	if err := decodeJSON(r, &def); err != nil {
		h.respondWithErr(w, err)
		return
	}
	def.ID = chi.URLParam(r, "id")
	if err := validation.ValidateFilter(def, h.store.Snapshot().Filters); err != nil {
		h.respondWithErr(w, err)
		return
	}
	updated, err := h.store.UpdateFilter(def)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("filter", "update", updated.ID)
	h.RespondWithJSON(w, http.StatusOK, updated)
}

// AdminDeleteFilter removes the definition. Plan attributes and user
// selections under its key stay and stop constraining results.
func (h *HTTPHandlerImpl) AdminDeleteFilter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteFilter(id); err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.mutated("filter", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// Reports

func (h *HTTPHandlerImpl) AdminStats(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.portal.Stats())
}

func (h *HTTPHandlerImpl) AdminIntegrity(w http.ResponseWriter, r *http.Request) {
	report := validation.CheckIntegrity(h.store.Snapshot())
	metrics.IntegrityIssues.Set(float64(report.IssueCount()))
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"issues": report.IssueCount(),
		"report": report,
	})
}
