package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для клиентов
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList обрабатывает GET /v1/clients
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{Query: q.Get("q")}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	resp, err := h.service.List(r.Context(), params)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list clients")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleCreate обрабатывает POST /v1/clients
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p nutrition.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	client, err := h.service.Create(r.Context(), p)
	if err != nil {
		h.sendServiceError(w, err, "Failed to create client")
		return
	}

	h.sendJSON(w, http.StatusCreated, client)
}

// HandleGet обрабатывает GET /v1/clients/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r)
	if !ok {
		return
	}

	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, err, "Failed to get client")
		return
	}

	h.sendJSON(w, http.StatusOK, client)
}

// HandleUpdate обрабатывает PATCH /v1/clients/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	client, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.sendServiceError(w, err, "Failed to update client")
		return
	}

	h.sendJSON(w, http.StatusOK, client)
}

// HandleDelete обрабатывает DELETE /v1/clients/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.sendServiceError(w, err, "Failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) extractID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid client ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *nutrition.ValidationError
	switch {
	case errors.Is(err, ErrClientNotFound):
		h.sendError(w, http.StatusNotFound, "not_found", "Client not found")
	case errors.As(err, &verr):
		h.sendError(w, http.StatusBadRequest, "invalid_profile", verr.Error())
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
