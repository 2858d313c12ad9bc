package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// recordProperties are the stored fields of every chunk record. Only the
// configured text field is vectorized; the rest is skipped metadata.
var recordProperties = []struct {
	name     string
	dataType string
}{
	{"text", "text"},
	{"url", "text"},
	{"language", "text"},
	{"description", "text"},
	{"header", "text"},
	{"headerLevel", "int"},
	{"chunkIndex", "int"},
	{"totalChunks", "int"},
	{"parentDocId", "text"},
}

// WeaviateStore serves named indexes as Weaviate classes. Namespaces map
// to tenants, so one collection never sees another's records.
type WeaviateStore struct {
	client *weaviate.Client
	embed  EmbeddingConfig
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")

	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}

	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &WeaviateStore{
		client: client,
		embed: EmbeddingConfig{
			Vectorizer: cfg.Vectorizer,
			Model:      cfg.EmbeddingModel,
			TextField:  cfg.TextField,
			Reranker:   cfg.Reranker,
		},
	}, nil
}

// EmbeddingDefaults returns the store-wide embedding configuration used
// when an index is created without an explicit one.
func (s *WeaviateStore) EmbeddingDefaults() EmbeddingConfig {
	return s.embed
}

func (s *WeaviateStore) HasIndex(ctx context.Context, name string) (bool, error) {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}
	class := ClassNameForIndex(name)
	for _, c := range schema.Classes {
		if c.Class == class {
			return true, nil
		}
	}
	return false, nil
}

func (s *WeaviateStore) CreateIndexForModel(ctx context.Context, name string, embed EmbeddingConfig) error {
	if embed.Vectorizer == "" {
		embed = s.embed
	}
	err := s.client.Schema().ClassCreator().WithClass(classObjectFor(ClassNameForIndex(name), embed)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	return nil
}

func (s *WeaviateStore) DeleteIndex(ctx context.Context, name string) error {
	err := s.client.Schema().ClassDeleter().WithClassName(ClassNameForIndex(name)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", name, err)
	}
	return nil
}

// IsIndexReady reports whether the instance answers readiness probes and
// the index's class exists.
func (s *WeaviateStore) IsIndexReady(ctx context.Context, name string) (bool, error) {
	ready, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil || !ready {
		return false, err
	}
	return s.HasIndex(ctx, name)
}

func (s *WeaviateStore) ListNamespaces(ctx context.Context, name string) ([]string, error) {
	tenants, err := s.client.Schema().TenantsGetter().
		WithClassName(ClassNameForIndex(name)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces of %s: %w", name, err)
	}
	namespaces := make([]string, 0, len(tenants))
	for _, t := range tenants {
		namespaces = append(namespaces, t.Name)
	}
	return namespaces, nil
}

func (s *WeaviateStore) Index(name string) IndexHandle {
	return &weaviateIndex{
		client: s.client,
		class:  ClassNameForIndex(name),
	}
}

// weaviateIndex is the handle for one class.
type weaviateIndex struct {
	client *weaviate.Client
	class  string
}

// UpsertRecords writes the batch under the records' own identifiers, so a
// retried batch overwrites instead of duplicating. Any per-object failure
// fails the whole call; callers wanting partial success send batches of
// one.
func (i *weaviateIndex) UpsertRecords(ctx context.Context, namespace string, records []types.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	objects := make([]*models.Object, 0, len(records))
	for _, rec := range records {
		objects = append(objects, &models.Object{
			ID:     strfmt.UUID(rec.ID),
			Class:  i.class,
			Tenant: namespace,
			Properties: map[string]interface{}{
				"text":        rec.Text,
				"url":         rec.Metadata.URL,
				"language":    rec.Metadata.Language,
				"description": rec.Metadata.Description,
				"header":      rec.Metadata.Header,
				"headerLevel": rec.Metadata.HeaderLevel,
				"chunkIndex":  rec.Metadata.ChunkIndex,
				"totalChunks": rec.Metadata.TotalChunks,
				"parentDocId": rec.Metadata.ParentDocID,
			},
		})
	}

	resp, err := i.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("batch upsert failed: %w", err)
	}

	var failed []string
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			failed = append(failed, fmt.Sprintf("%s: %s", obj.ID, obj.Result.Errors.Error[0].Message))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d records failed: %s", len(failed), len(records), strings.Join(failed, "; "))
	}
	return nil
}

func (i *weaviateIndex) SearchRecords(ctx context.Context, namespace string, query SearchQuery) (*types.SearchResponse, error) {
	additional := []graphql.Field{{Name: "id"}, {Name: "distance"}}
	if query.RerankModel != "" {
		additional = append(additional, graphql.Field{
			Name:   fmt.Sprintf("rerank(property: %q, query: %q)", "text", query.Text),
			Fields: []graphql.Field{{Name: "score"}},
		})
	}
	fields := []graphql.Field{
		{Name: "text"},
		{Name: "url"},
		{Name: "description"},
		{Name: "_additional", Fields: additional},
	}

	nearText := i.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query.Text})

	result, err := i.client.GraphQL().Get().
		WithClassName(i.class).
		WithTenant(namespace).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(query.TopK).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	response := &types.SearchResponse{Result: types.SearchResult{Hits: []types.SearchHit{}}}
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return response, nil
	}
	data, ok := get[i.class].([]interface{})
	if !ok {
		return response, nil
	}
	for _, item := range data {
		doc, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		hit := types.SearchHit{
			Fields: types.HitFields{
				Text:        stringField(doc, "text"),
				URL:         stringField(doc, "url"),
				Description: stringField(doc, "description"),
			},
		}
		if additional, ok := doc["_additional"].(map[string]interface{}); ok {
			hit.ID, _ = additional["id"].(string)
			if distance, ok := additional["distance"].(float64); ok {
				hit.Score = 1 - distance
			}
			if rerank, ok := additional["rerank"].([]interface{}); ok && len(rerank) > 0 {
				if entry, ok := rerank[0].(map[string]interface{}); ok {
					if score, ok := entry["score"].(float64); ok {
						hit.Score = score
					}
				}
			}
		}
		response.Result.Hits = append(response.Result.Hits, hit)
	}

	return response, nil
}

// ClassNameForIndex turns an index name like "verkada-docs" into a valid
// Weaviate class name like "VerkadaDocs".
func ClassNameForIndex(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func classObjectFor(class string, embed EmbeddingConfig) *models.Class {
	moduleConfig := map[string]interface{}{}
	if embed.Vectorizer != "" {
		moduleConfig[embed.Vectorizer] = map[string]interface{}{
			"model":              embed.Model,
			"vectorizeClassName": false,
		}
	}
	if embed.Reranker != "" {
		moduleConfig[embed.Reranker] = map[string]interface{}{}
	}

	properties := make([]*models.Property, 0, len(recordProperties))
	for _, p := range recordProperties {
		prop := &models.Property{
			Name:     p.name,
			DataType: []string{p.dataType},
		}
		if embed.Vectorizer != "" && p.name != embed.TextField {
			prop.ModuleConfig = map[string]interface{}{
				embed.Vectorizer: map[string]interface{}{"skip": true},
			}
		}
		properties = append(properties, prop)
	}

	return &models.Class{
		Class:           class,
		Properties:      properties,
		Vectorizer:      embed.Vectorizer,
		ModuleConfig:    moduleConfig,
		VectorIndexType: "hnsw",
		MultiTenancyConfig: &models.MultiTenancyConfig{
			Enabled:            true,
			AutoTenantCreation: true,
		},
	}
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}
