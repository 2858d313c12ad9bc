package types

// SearchRequest is the body of POST /api/search. Query is required;
// everything else falls back to the configured defaults.
type SearchRequest struct {
	Query       string `json:"query"`
	RerankModel string `json:"rerank_model,omitempty"`
	TopK        int    `json:"top_k,omitempty"`
	IndexName   string `json:"index_name,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
}
