package handlers

import (
	"net/http"
	"strings"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/session"
	"github.com/giygas/healthplans-api/validation"
	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	SessionID string        `json:"sessionId"`
	User      entities.User `json:"user"`
}

// Login opens a session for a seeded user's email. There is no password.
func (h *HTTPHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		h.respondWithErr(w, &validation.Error{Message: "Validation failed", Fields: map[string]string{"email": "is required"}})
		return
	}

	s, err := h.sessions.Login(r.Context(), req.Email)
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, loginResponse{SessionID: s.ID, User: s.User})
}

func (h *HTTPHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Header.Get(SessionHeader)); err != nil {
		h.respondWithErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlanView is a plan with the caller's favorite badge
type PlanView struct {
	entities.HealthPlan
	Favorite bool `json:"favorite"`
}

func withBadges(plans []entities.HealthPlan, s *session.Session) []PlanView {
	views := make([]PlanView, len(plans))
	for i, plan := range plans {
		views[i] = PlanView{HealthPlan: plan, Favorite: s.Favorites().IsFavorite(plan.ID)}
	}
	return views
}

// ListPlans returns the ranked plans matching the session's query and selections
func (h *HTTPHandlerImpl) ListPlans(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, withBadges(h.portal.FilteredPlans(s), s))
}

// ListRecommendedPlans returns the same plans in recommendation order
func (h *HTTPHandlerImpl) ListRecommendedPlans(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, withBadges(h.portal.RecommendedPlans(s), s))
}

type planDetailResponse struct {
	session.PlanDetail
	Favorite bool `json:"favorite"`
}

func (h *HTTPHandlerImpl) GetPlanDetail(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	detail, err := h.portal.PlanDetail(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithErr(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, planDetailResponse{
		PlanDetail: detail,
		Favorite:   s.Favorites().IsFavorite(detail.Plan.ID),
	})
}

func (h *HTTPHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, h.portal.Dashboard(s))
}

// ListFilters returns the filter definitions that drive the filter panel
func (h *HTTPHandlerImpl) ListFilters(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.Snapshot().Filters)
}

type selectionResponse struct {
	Query      string              `json:"query"`
	Selections entities.Selections `json:"selections"`
}

func (h *HTTPHandlerImpl) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	query, selections := s.State()
	h.RespondWithJSON(w, http.StatusOK, selectionResponse{Query: query, Selections: selections})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *HTTPHandlerImpl) SetQuery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, err)
		return
	}
	if err := validation.ValidateQuery(req.Query); err != nil {
		logging.Warn("Unusual user input", "query_length", len(req.Query), "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.SetQuery(req.Query)
	query, selections := s.State()
	h.RespondWithJSON(w, http.StatusOK, selectionResponse{Query: query, Selections: selections})
}

type selectionRequest struct {
	Value entities.Value `json:"value"`
}

// SetSelection stores the value for the filter key in the URL. A null or
// missing value clears the key. Keys without a definition are accepted and
// simply never constrain the results.
func (h *HTTPHandlerImpl) SetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if err := validation.ValidateFilterKey(key); err != nil {
		logging.Warn("Unusual user input", "key", key, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, err)
		return
	}

	s.SetSelection(key, req.Value)
	query, selections := s.State()
	h.RespondWithJSON(w, http.StatusOK, selectionResponse{Query: query, Selections: selections})
}

// ResetSelections clears every filter selection and keeps the query
func (h *HTTPHandlerImpl) ResetSelections(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	s.ResetSelections()
	query, selections := s.State()
	h.RespondWithJSON(w, http.StatusOK, selectionResponse{Query: query, Selections: selections})
}

type favoritesResponse struct {
	IDs   []string              `json:"ids"`
	Plans []entities.HealthPlan `json:"plans"`
}

// ListFavorites returns the favorite ids in insertion order and the plans
// they resolve to. Ids of deleted plans stay in the list.
func (h *HTTPHandlerImpl) ListFavorites(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	ids := s.Favorites().IDs()
	plans := make([]entities.HealthPlan, 0, len(ids))
	for _, id := range ids {
		if plan, err := h.store.GetPlan(id); err == nil {
			plans = append(plans, plan)
		}
	}
	h.RespondWithJSON(w, http.StatusOK, favoritesResponse{IDs: ids, Plans: plans})
}

type toggleResponse struct {
	PlanID   string `json:"planId"`
	Favorite bool   `json:"favorite"`
}

// ToggleFavorite flips membership of the plan id; the id is not checked
// against the catalog.
func (h *HTTPHandlerImpl) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	planID := chi.URLParam(r, "planId")
	if planID == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing plan id")
		return
	}
	favorite := h.sessions.ToggleFavorite(r.Context(), s, planID)
	h.RespondWithJSON(w, http.StatusOK, toggleResponse{PlanID: planID, Favorite: favorite})
}
