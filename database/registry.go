package database

import (
	"fmt"
	"sync"
)

// Registry hands out index handles for the configured set of indexes. It
// is owned by whoever wires the server; lookups return a cached handle or
// create and insert one. Names outside the configured set are rejected
// before any network call.
type Registry struct {
	store VectorStore

	mu         sync.Mutex
	handles    map[string]IndexHandle
	namespaces map[string][]string
}

func NewRegistry(store VectorStore, indexes map[string][]string) *Registry {
	namespaces := make(map[string][]string, len(indexes))
	for name, ns := range indexes {
		namespaces[name] = append([]string(nil), ns...)
	}
	return &Registry{
		store:      store,
		handles:    make(map[string]IndexHandle, len(indexes)),
		namespaces: namespaces,
	}
}

// Handle returns the cached handle for name, creating it on first use.
func (r *Registry) Handle(name string) (IndexHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.namespaces[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndex, name)
	}
	handle, ok := r.handles[name]
	if !ok {
		handle = r.store.Index(name)
		r.handles[name] = handle
	}
	return handle, nil
}

// Indexes returns the served index names with their namespaces.
func (r *Registry) Indexes() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][]string, len(r.namespaces))
	for name, ns := range r.namespaces {
		out[name] = append([]string(nil), ns...)
	}
	return out
}
