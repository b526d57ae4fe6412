package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/arangodb/arango-test-service/internal/arango"
	"github.com/arangodb/arango-test-service/internal/config"
)

// DocumentStore is the storage surface the handlers operate against. It is
// implemented by arango.Store.
type DocumentStore interface {
	Insert(ctx context.Context, token string, doc map[string]any) (string, error)
	ReadAll(ctx context.Context, token string) ([]map[string]any, error)
	Drop(ctx context.Context, token string) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store DocumentStore
}

// New creates a new Handlers instance
func New(store DocumentStore) *Handlers {
	return &Handlers{store: store}
}

// errorResponse is the error envelope of the original service: a single
// human-readable detail string, no machine-readable code.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handlers) jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) jsonError(w http.ResponseWriter, message string, status int) {
	h.jsonResponse(w, status, errorResponse{Detail: message})
}

// internalError classifies err as backend-reported, local configuration, or
// unexpected, and writes the 500 response with the matching message prefix.
func (h *Handlers) internalError(w http.ResponseWriter, err error) {
	var be *arango.BackendError
	switch {
	case errors.Is(err, config.ErrEndpointNotSet):
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
	case errors.As(err, &be):
		h.jsonError(w, "ArangoDB error: "+be.Error(), http.StatusInternalServerError)
	default:
		h.jsonError(w, "Unexpected error: "+err.Error(), http.StatusInternalServerError)
	}
}
