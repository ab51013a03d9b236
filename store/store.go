package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetByID when no document exists for the id.
var ErrNotFound = errors.New("store: document not found")

// ServerTimestamp marks a field to be stamped with the backend's own clock on
// write. It never survives a read; readers always see a concrete time.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// Filter is a single query predicate. Supported operators are "==" and
// "array-contains".
type Filter struct {
	Path  string
	Op    string
	Value any
}

// Query describes a collection read: zero or more filters, an optional order
// and an optional result limit.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Document is a raw stored document. Timestamp-shaped values in Data are
// backend-specific until decoded by the service layer.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document-database capability the services are written against.
// Firestore provides it in production, the in-memory store in tests.
type Store interface {
	// Insert adds a new document and returns its assigned id.
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)

	// GetByID returns ErrNotFound when the document does not exist.
	GetByID(ctx context.Context, collection, id string) (Document, error)

	// Find runs a query and returns the matching documents.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)

	// Update merges the given fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Remove deletes a document. Removing an absent document is not an error.
	Remove(ctx context.Context, collection, id string) error

	// Subscribe watches a single document. onChange receives the current
	// document on every remote change, or nil when it does not exist. The
	// returned unsubscribe func is safe to call more than once.
	Subscribe(ctx context.Context, collection, id string, onChange func(*Document), onError func(error)) (func(), error)

	// SubscribeQuery watches a query and delivers the full result set on
	// every change.
	SubscribeQuery(ctx context.Context, collection string, q Query, onChange func([]Document), onError func(error)) (func(), error)

	// EnableNetwork asks the backend client to re-establish connectivity.
	// Best effort; some backends manage their own channel and ignore it.
	EnableNetwork(ctx context.Context) error
}
