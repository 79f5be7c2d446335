package store

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by Update when the target document is absent.
var ErrDocumentNotFound = errors.New("document not found")

// Fields is a schemaless document body. Nil values are dropped before any
// write, so "absent" and "explicitly null" are indistinguishable to the store.
type Fields map[string]interface{}

// DocumentStore is the capability surface the repositories depend on: by-id
// operations plus single-field-equality listing with an optional sort. There
// is deliberately no conditional mutation; ownership checks live above this
// layer.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Fields, error)
	Add(ctx context.Context, collection string, fields Fields) (string, error)
	Put(ctx context.Context, collection, id string, fields Fields, merge bool) error
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Fields, error)
	ListWhere(ctx context.Context, collection, field string, value interface{}, orderBy string, descending bool) ([]Fields, error)
}

// sanitize returns a copy of fields with nil values removed, recursing into
// nested documents.
func sanitize(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		if nested, ok := v.(Fields); ok {
			out[k] = sanitize(nested)
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = sanitize(nested)
			continue
		}
		out[k] = v
	}
	return out
}
