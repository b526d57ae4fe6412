package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arangodb/arango-test-service/internal/arango"
	"github.com/arangodb/arango-test-service/internal/config"
)

// fakeStore implements DocumentStore with pluggable behavior per test.
type fakeStore struct {
	insert  func(ctx context.Context, token string, doc map[string]any) (string, error)
	readAll func(ctx context.Context, token string) ([]map[string]any, error)
	drop    func(ctx context.Context, token string) error
}

func (f *fakeStore) Insert(ctx context.Context, token string, doc map[string]any) (string, error) {
	return f.insert(ctx, token, doc)
}

func (f *fakeStore) ReadAll(ctx context.Context, token string) ([]map[string]any, error) {
	return f.readAll(ctx, token)
}

func (f *fakeStore) Drop(ctx context.Context, token string) error {
	return f.drop(ctx, token)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func TestWriteSuccess(t *testing.T) {
	var inserted map[string]any
	h := New(&fakeStore{
		insert: func(ctx context.Context, token string, doc map[string]any) (string, error) {
			inserted = doc
			return "12345", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(`{"a": 1}`))
	rec := httptest.NewRecorder()
	h.Write(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Fatalf("expected status success, got %v", body["status"])
	}
	if body["message"] != "Document written successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["document_key"] != "12345" {
		t.Fatalf("expected document_key 12345, got %v", body["document_key"])
	}
	if inserted["a"] != float64(1) {
		t.Fatalf("expected body to reach the store verbatim, got %v", inserted)
	}
}

func TestWriteMalformedJSON(t *testing.T) {
	h := New(&fakeStore{
		insert: func(ctx context.Context, token string, doc map[string]any) (string, error) {
			t.Fatal("store must not be called for malformed JSON")
			return "", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(`{"a": `))
	rec := httptest.NewRecorder()
	h.Write(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	detail, _ := body["detail"].(string)
	if !strings.HasPrefix(detail, "Unexpected error: ") {
		t.Fatalf("expected unexpected-error detail, got %q", detail)
	}
}

func TestWriteErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDetail string
	}{
		{
			"backend error gets prefix",
			&arango.BackendError{Err: errors.New("unauthorized")},
			"ArangoDB error: unauthorized",
		},
		{
			"empty insert result",
			&arango.BackendError{Err: arango.ErrEmptyResult},
			"ArangoDB error: got empty result",
		},
		{
			"missing endpoint passes through raw",
			config.ErrEndpointNotSet,
			"ARANGO_DEPLOYMENT_ENDPOINT environment variable not set",
		},
		{
			"unclassified error gets generic prefix",
			errors.New("boom"),
			"Unexpected error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakeStore{
				insert: func(ctx context.Context, token string, doc map[string]any) (string, error) {
					return "", tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			h.Write(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["detail"] != tt.wantDetail {
				t.Fatalf("expected detail %q, got %v", tt.wantDetail, body["detail"])
			}
		})
	}
}

func TestReadSuccess(t *testing.T) {
	docs := []map[string]any{
		{"_key": "1", "a": float64(1)},
		{"_key": "2", "b": float64(2)},
	}
	h := New(&fakeStore{
		readAll: func(ctx context.Context, token string) ([]map[string]any, error) {
			return docs, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Read(rec, httptest.NewRequest(http.MethodGet, "/read", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Retrieved 2 document(s)" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	got, _ := body["documents"].([]any)
	if len(got) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(got))
	}
}

func TestReadMissingCollection(t *testing.T) {
	h := New(&fakeStore{
		readAll: func(ctx context.Context, token string) ([]map[string]any, error) {
			return nil, arango.ErrCollectionNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Read(rec, httptest.NewRequest(http.MethodGet, "/read", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("missing collection must not fail the read, got status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Fatalf("expected status success, got %v", body["status"])
	}
	if body["message"] != "Collection 'test' does not exist" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	got, ok := body["documents"].([]any)
	if !ok || len(got) != 0 {
		t.Fatalf("expected empty documents list, got %v", body["documents"])
	}
}

func TestReadMissingDatabase(t *testing.T) {
	h := New(&fakeStore{
		readAll: func(ctx context.Context, token string) ([]map[string]any, error) {
			return nil, arango.ErrDatabaseNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Read(rec, httptest.NewRequest(http.MethodGet, "/read", nil))

	// Read never 404s; a missing database is an internal error
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["detail"] != "Database 'test-service' does not exist" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestDeleteSuccess(t *testing.T) {
	h := New(&fakeStore{
		drop: func(ctx context.Context, token string) error {
			return nil
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/delete", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Database 'test-service' deleted successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestDeleteMissingDatabase(t *testing.T) {
	h := New(&fakeStore{
		drop: func(ctx context.Context, token string) error {
			return arango.ErrDatabaseNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/delete", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["detail"] != "Database 'test-service' does not exist, nothing to delete" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestDeleteBackendError(t *testing.T) {
	h := New(&fakeStore{
		drop: func(ctx context.Context, token string) error {
			return &arango.BackendError{Err: errors.New("forbidden")}
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/delete", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["detail"] != "ArangoDB error: forbidden" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestHealth(t *testing.T) {
	h := New(nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Fatalf("expected healthy status, got %v", body["status"])
	}
}
