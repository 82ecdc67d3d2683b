package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler serves the stateless calculator endpoint.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleCalculate handles POST /v1/nutrition/calculate
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	p = p.Normalized()
	targets, err := Compute(p)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "invalid_profile", verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to calculate targets")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(CalculateResponse{Profile: p, Targets: targets})
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
