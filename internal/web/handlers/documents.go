package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/arangodb/arango-test-service/internal/arango"
	"github.com/arangodb/arango-test-service/internal/config"
	"github.com/arangodb/arango-test-service/internal/web/middleware"
)

// writeResponse is the success envelope for POST /write
type writeResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	DocumentKey string `json:"document_key"`
}

// readResponse is the success envelope for GET /read
type readResponse struct {
	Status    string           `json:"status"`
	Message   string           `json:"message"`
	Documents []map[string]any `json:"documents"`
}

// deleteResponse is the success envelope for DELETE /delete
type deleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Write inserts the JSON request body as a new document, creating the target
// database and collection if they do not exist yet.
func (h *Handlers) Write(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r.Context())

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.jsonError(w, "Unexpected error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	key, err := h.store.Insert(r.Context(), token, doc)
	if err != nil {
		log.Error().Err(err).Msg("Write failed")
		h.internalError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, writeResponse{
		Status:      "success",
		Message:     "Document written successfully",
		DocumentKey: key,
	})
}

// Read returns every document in the target collection. A missing collection
// is a success with an empty list; a missing database is an error.
func (h *Handlers) Read(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r.Context())

	docs, err := h.store.ReadAll(r.Context(), token)
	switch {
	case errors.Is(err, arango.ErrCollectionNotFound):
		h.jsonResponse(w, http.StatusOK, readResponse{
			Status:    "success",
			Message:   arango.ErrCollectionNotFound.Error(),
			Documents: []map[string]any{},
		})
	case errors.Is(err, arango.ErrDatabaseNotFound):
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
	case err != nil:
		log.Error().Err(err).Msg("Read failed")
		h.internalError(w, err)
	default:
		h.jsonResponse(w, http.StatusOK, readResponse{
			Status:    "success",
			Message:   fmt.Sprintf("Retrieved %d document(s)", len(docs)),
			Documents: docs,
		})
	}
}

// Delete drops the target database and all its contents. A missing database
// is a 404, not an implicit success.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r.Context())

	err := h.store.Drop(r.Context(), token)
	switch {
	case errors.Is(err, arango.ErrDatabaseNotFound):
		h.jsonError(w, err.Error()+", nothing to delete", http.StatusNotFound)
	case err != nil:
		log.Error().Err(err).Msg("Delete failed")
		h.internalError(w, err)
	default:
		h.jsonResponse(w, http.StatusOK, deleteResponse{
			Status:  "success",
			Message: "Database '" + config.DatabaseName + "' deleted successfully",
		})
	}
}

// Health reports liveness. No auth, no backend contact.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}
