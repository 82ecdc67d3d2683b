package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for week plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new week plan handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/clients/{id}/plan
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseClientID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Load(r.Context(), clientID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get week plan")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleSave handles PUT /v1/clients/{id}/plan
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseClientID(w, r)
	if !ok {
		return
	}

	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	view, err := h.service.Save(r.Context(), clientID, req.Days, req.Version)
	if err != nil {
		h.writeServiceError(w, err, "Failed to save week plan")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleEdit handles POST /v1/clients/{id}/plan/edit
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseClientID(w, r)
	if !ok {
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	resp, err := h.service.ApplyEdits(r.Context(), clientID, req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to apply edits")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleTemplate handles POST /v1/meal/template
func (h *Handler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	var t nutrition.Targets
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if t.DailyCalories < 0 || t.Proteins < 0 || t.Fats < 0 || t.Carbs < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "targets must not be negative")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Template(t))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "Client not found")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_plan", verr.Error())
	case errors.Is(err, storage.ErrVersionConflict):
		writeError(w, http.StatusConflict, "version_conflict", "Plan was changed by someone else; reload and retry")
	case errors.Is(err, storage.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, "invalid_plan", err.Error())
	case strings.HasPrefix(err.Error(), "validation failed: "):
		writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), "validation failed: "))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func parseClientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid client id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
