package database

import (
	"context"
	"errors"
	"time"

	"github.com/openrag/docsearch-be/types"
)

// ErrUnknownIndex is returned for index names outside the served set.
var ErrUnknownIndex = errors.New("unknown index")

// EmbeddingConfig selects the integrated embedding of an index: the
// vectorizer module, its model and the record field fed into it, plus an
// optional reranker module.
type EmbeddingConfig struct {
	Vectorizer string
	Model      string
	TextField  string
	Reranker   string
}

// SearchQuery is one namespace-scoped search. RerankModel, when set,
// requests a secondary relevance pass over the text field.
type SearchQuery struct {
	Text        string
	TopK        int
	RerankModel string
}

// VectorStore is the external vector index collaborator. It computes
// embeddings itself; callers only ship text records.
type VectorStore interface {
	HasIndex(ctx context.Context, name string) (bool, error)
	CreateIndexForModel(ctx context.Context, name string, embed EmbeddingConfig) error
	DeleteIndex(ctx context.Context, name string) error
	IsIndexReady(ctx context.Context, name string) (bool, error)
	ListNamespaces(ctx context.Context, name string) ([]string, error)
	Index(name string) IndexHandle
}

// IndexHandle operates on one index. Upserts are idempotent at the record
// identifier level: re-sending a record overwrites it.
type IndexHandle interface {
	UpsertRecords(ctx context.Context, namespace string, records []types.ChunkRecord) error
	SearchRecords(ctx context.Context, namespace string, query SearchQuery) (*types.SearchResponse, error)
}

// WaitUntilReady polls the store until the named index reports ready or
// the context is done.
func WaitUntilReady(ctx context.Context, store VectorStore, name string, interval time.Duration) error {
	for {
		ready, err := store.IsIndexReady(ctx, name)
		if err == nil && ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
