package arango

import (
	"context"
	"errors"

	driver "github.com/arangodb/go-driver"

	"github.com/arangodb/arango-test-service/internal/config"
)

// Error messages are part of the wire contract: clients of the original
// service parse them verbatim, so they keep their original casing.
var (
	// ErrDatabaseNotFound reports that the fixed target database is absent
	// where an operation requires it to exist.
	ErrDatabaseNotFound = errors.New("Database '" + config.DatabaseName + "' does not exist")

	// ErrCollectionNotFound reports that the fixed target collection is
	// absent inside an existing database.
	ErrCollectionNotFound = errors.New("Collection '" + config.CollectionName + "' does not exist")

	// ErrEmptyResult reports an insert the backend accepted without
	// returning a document key.
	ErrEmptyResult = errors.New("got empty result")
)

// BackendError wraps a failure reported by (or on the way to) the ArangoDB
// deployment, as opposed to a local precondition failure. Handlers surface
// these with the backend error prefix.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }

// backendErr wraps driver-originated errors as BackendError. A missing
// deployment endpoint is a local configuration failure and passes through.
func backendErr(err error) error {
	if err == nil || errors.Is(err, config.ErrEndpointNotSet) {
		return err
	}
	return &BackendError{Err: err}
}

const readAllQuery = "FOR doc IN @@collection RETURN doc"

// Store performs document operations against the fixed target database and
// collection. It holds no state: every call authenticates with the caller's
// token and performs exactly one backend round trip per logical step, with no
// retries and no local locking. Creation races are left to the backend's own
// guarantees.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Insert writes doc as a new document, creating the target database and
// collection if absent. It returns the backend-assigned document key.
func (s *Store) Insert(ctx context.Context, token string, doc map[string]any) (string, error) {
	client, err := newClient(token)
	if err != nil {
		return "", backendErr(err)
	}

	exists, err := client.DatabaseExists(ctx, config.DatabaseName)
	if err != nil {
		return "", backendErr(err)
	}

	var db driver.Database
	if exists {
		db, err = client.Database(ctx, config.DatabaseName)
	} else {
		db, err = client.CreateDatabase(ctx, config.DatabaseName, nil)
	}
	if err != nil {
		return "", backendErr(err)
	}

	colExists, err := db.CollectionExists(ctx, config.CollectionName)
	if err != nil {
		return "", backendErr(err)
	}

	var col driver.Collection
	if colExists {
		col, err = db.Collection(ctx, config.CollectionName)
	} else {
		col, err = db.CreateCollection(ctx, config.CollectionName, nil)
	}
	if err != nil {
		return "", backendErr(err)
	}

	meta, err := col.CreateDocument(ctx, doc)
	if err != nil {
		return "", backendErr(err)
	}
	if meta.Key == "" {
		return "", &BackendError{Err: ErrEmptyResult}
	}
	return meta.Key, nil
}

// ReadAll returns every document currently in the target collection, in the
// backend's native scan order. It returns ErrDatabaseNotFound when the target
// database is absent and ErrCollectionNotFound when only the collection is.
func (s *Store) ReadAll(ctx context.Context, token string) ([]map[string]any, error) {
	client, err := newClient(token)
	if err != nil {
		return nil, backendErr(err)
	}

	exists, err := client.DatabaseExists(ctx, config.DatabaseName)
	if err != nil {
		return nil, backendErr(err)
	}
	if !exists {
		return nil, ErrDatabaseNotFound
	}

	db, err := client.Database(ctx, config.DatabaseName)
	if err != nil {
		return nil, backendErr(err)
	}

	colExists, err := db.CollectionExists(ctx, config.CollectionName)
	if err != nil {
		return nil, backendErr(err)
	}
	if !colExists {
		return nil, ErrCollectionNotFound
	}

	cursor, err := db.Query(ctx, readAllQuery, map[string]any{
		"@collection": config.CollectionName,
	})
	if err != nil {
		return nil, backendErr(err)
	}
	defer cursor.Close()

	docs := make([]map[string]any, 0)
	for {
		var doc map[string]any
		_, err := cursor.ReadDocument(ctx, &doc)
		if driver.IsNoMoreDocuments(err) {
			break
		}
		if err != nil {
			return nil, backendErr(err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Drop removes the target database and everything in it. It returns
// ErrDatabaseNotFound when the database does not exist; there is no implicit
// success.
func (s *Store) Drop(ctx context.Context, token string) error {
	client, err := newClient(token)
	if err != nil {
		return backendErr(err)
	}

	exists, err := client.DatabaseExists(ctx, config.DatabaseName)
	if err != nil {
		return backendErr(err)
	}
	if !exists {
		return ErrDatabaseNotFound
	}

	db, err := client.Database(ctx, config.DatabaseName)
	if err != nil {
		return backendErr(err)
	}
	return backendErr(db.Remove(ctx))
}
