package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/fdg312/diet-planner/internal/clients"
	"github.com/google/uuid"
)

// clientLookup resolves a client for the current user.
type clientLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*clients.ClientDTO, error)
}

// requireClientOwned guards /v1/clients/{id}/... routes. Clients of other
// owners answer 404 so their existence is not revealed. Malformed ids
// reach the handler, which reports them.
func requireClientOwned(lookup clientLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := lookup.Get(r.Context(), id); err != nil {
			if errors.Is(err, clients.ErrClientNotFound) {
				writeOwnershipError(w)
				return
			}
			log.Printf("WARN ownership: client=%s lookup failed: %v", id, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":"internal_error","message":"Failed to check client access"}}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeOwnershipError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":{"code":"client_not_found","message":"Client not found"}}`))
}
