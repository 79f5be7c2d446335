package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory DocumentStore with the same semantics as the
// Mongo implementation. It backs tests and local development without a
// running database.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Fields
	seq  map[string]int
	next int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Fields),
		seq:  make(map[string]int),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, nil
	}
	return s.export(id, doc), nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.put(collection, id, sanitize(fields))
	return id, nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := sanitize(fields)
	if existing, ok := s.data[collection][id]; ok && merge {
		for k, v := range payload {
			existing[k] = v
		}
		return nil
	}
	s.put(collection, id, payload)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return ErrDocumentNotFound
	}
	for k, v := range sanitize(fields) {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[collection], id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Fields, error) {
	return s.ListWhere(ctx, collection, "", nil, "", false)
}

func (s *MemoryStore) ListWhere(ctx context.Context, collection, field string, value interface{}, orderBy string, descending bool) ([]Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id  string
		doc Fields
		seq int
	}

	var matched []entry
	for id, doc := range s.data[collection] {
		if field != "" && doc[field] != value {
			continue
		}
		matched = append(matched, entry{id: id, doc: doc, seq: s.seq[collection+"/"+id]})
	}

	// Stable within a call: sort key first, insertion order for ties.
	sort.Slice(matched, func(i, j int) bool {
		if orderBy != "" {
			less, equal := compareValues(matched[i].doc[orderBy], matched[j].doc[orderBy])
			if !equal {
				if descending {
					return !less
				}
				return less
			}
		}
		return matched[i].seq < matched[j].seq
	})

	out := make([]Fields, len(matched))
	for i, e := range matched {
		out[i] = s.export(e.id, e.doc)
	}
	return out, nil
}

// put stores a copy of fields and records insertion order. Callers hold the
// write lock.
func (s *MemoryStore) put(collection, id string, fields Fields) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]Fields)
	}
	doc := make(Fields, len(fields))
	for k, v := range fields {
		doc[k] = v
	}
	s.data[collection][id] = doc
	s.next++
	s.seq[collection+"/"+id] = s.next
}

func (s *MemoryStore) export(id string, doc Fields) Fields {
	out := make(Fields, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["id"] = id
	return out
}

func compareValues(a, b interface{}) (less, equal bool) {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv), av.Equal(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv, av == bv
		}
	case int:
		if bv, ok := b.(int); ok {
			return av < bv, av == bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv, av == bv
		}
	}
	return false, true
}
