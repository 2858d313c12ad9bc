package database_test

import (
	"context"
	"testing"

	"github.com/openrag/docsearch-be/database"
	"github.com/openrag/docsearch-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore counts handle creations so tests can observe caching.
type fakeStore struct {
	indexCalls int
}

func (f *fakeStore) HasIndex(ctx context.Context, name string) (bool, error) { return true, nil }
func (f *fakeStore) CreateIndexForModel(ctx context.Context, name string, embed database.EmbeddingConfig) error {
	return nil
}
func (f *fakeStore) DeleteIndex(ctx context.Context, name string) error          { return nil }
func (f *fakeStore) IsIndexReady(ctx context.Context, name string) (bool, error) { return true, nil }
func (f *fakeStore) ListNamespaces(ctx context.Context, name string) ([]string, error) {
	return nil, nil
}
func (f *fakeStore) Index(name string) database.IndexHandle {
	f.indexCalls++
	return &fakeHandle{name: name}
}

type fakeHandle struct {
	name string
}

func (f *fakeHandle) UpsertRecords(ctx context.Context, namespace string, records []types.ChunkRecord) error {
	return nil
}

func (f *fakeHandle) SearchRecords(ctx context.Context, namespace string, query database.SearchQuery) (*types.SearchResponse, error) {
	return &types.SearchResponse{}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	indexes := map[string][]string{
		"verkada-docs":           {"verkada-docs"},
		"webpage-english-chunks": {"webpage-chunks"},
	}

	t.Run("returns a cached handle on repeated lookups", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		registry := database.NewRegistry(store, indexes)

		first, err := registry.Handle("verkada-docs")
		require.NoError(t, err)
		second, err := registry.Handle("verkada-docs")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, store.indexCalls)
	})

	t.Run("rejects names outside the configured set", func(t *testing.T) {
		t.Parallel()

		registry := database.NewRegistry(&fakeStore{}, indexes)

		_, err := registry.Handle("nope")
		assert.ErrorIs(t, err, database.ErrUnknownIndex)
	})

	t.Run("lists configured indexes with their namespaces", func(t *testing.T) {
		t.Parallel()

		registry := database.NewRegistry(&fakeStore{}, indexes)

		got := registry.Indexes()
		assert.Equal(t, indexes, got)

		// Mutating the copy must not leak into the registry.
		got["verkada-docs"][0] = "mutated"
		assert.Equal(t, "verkada-docs", registry.Indexes()["verkada-docs"][0])
	})
}
