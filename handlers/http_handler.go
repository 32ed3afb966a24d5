// Package handlers provides the HTTP handlers for the health plans API:
// mock authentication, the consumer search and favorites endpoints, admin
// catalog CRUD and the health endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/healthplans-api/data"
	"github.com/giygas/healthplans-api/engine"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/session"
	"github.com/giygas/healthplans-api/validation"
)

// SessionHeader carries the id returned by POST /auth/login
const SessionHeader = "X-Session-ID"

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.CatalogStore
	sessions  *session.Manager
	portal    *session.Portal
	health    interfaces.HealthChecker
	startTime time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.CatalogStore, sessions *session.Manager, portal *session.Portal, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		sessions:  sessions,
		portal:    portal,
		health:    health,
		startTime: time.Now(),
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithJSON writes payload as JSON with the given status
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if updated := h.store.GetLastUpdated(); !updated.IsZero() {
		w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(code)
	w.Write(body)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// respondWithErr maps store, engine and validation errors to a status
func (h *HTTPHandlerImpl) respondWithErr(w http.ResponseWriter, err error) {
	if verr, ok := validation.AsError(err); ok {
		h.RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: verr.Message,
			Code:    http.StatusBadRequest,
			Fields:  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, data.ErrNotFound), errors.Is(err, engine.ErrNotFound):
		h.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, data.ErrDuplicateID):
		h.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		h.RespondWithError(w, http.StatusUnauthorized, "Session expired or unknown")
	case errors.Is(err, session.ErrUnknownUser):
		h.RespondWithError(w, http.StatusUnauthorized, "Unknown user")
	default:
		logging.Error("Unhandled request error", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return &validation.Error{Message: "Request body is required"}
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &validation.Error{Message: fmt.Sprintf("Invalid JSON body: %v", err)}
	}
	return nil
}

// currentSession resolves the session named by SessionHeader and writes a 401
// when it is missing or unknown.
func (h *HTTPHandlerImpl) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		h.RespondWithError(w, http.StatusUnauthorized, "Missing "+SessionHeader+" header")
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		h.respondWithErr(w, err)
		return nil, false
	}
	return s, true
}

// HealthResponse keeps the /health field order stable
type HealthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
}

// HealthCheck returns the catalog health computed by the health checker
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()
	uptime := time.Since(h.startTime)

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status:        status,
		Uptime:        formatUptimeHuman(uptime),
		UptimeSeconds: uptime.Seconds(),
		Data:          details,
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
