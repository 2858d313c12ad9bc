package types

// SearchHit is one scored result returned by the index.
type SearchHit struct {
	ID     string    `json:"_id"`
	Score  float64   `json:"_score"`
	Fields HitFields `json:"fields"`
}

// HitFields are the stored fields requested for every search.
type HitFields struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// SearchResult wraps the hits of a single search call.
type SearchResult struct {
	Hits []SearchHit `json:"hits"`
}

// SearchUsage reports what a search consumed. All fields are optional;
// backends that do not meter usage leave them unset.
type SearchUsage struct {
	ReadUnits        *int `json:"read_units,omitempty"`
	EmbedTotalTokens *int `json:"embed_total_tokens,omitempty"`
	RerankUnits      *int `json:"rerank_units,omitempty"`
}

// SearchResponse is the body returned by POST /api/search.
type SearchResponse struct {
	Result SearchResult `json:"result"`
	Usage  SearchUsage  `json:"usage"`
}

// IndexesResponse maps every available index to its namespaces.
type IndexesResponse struct {
	Indexes map[string][]string `json:"indexes"`
}

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}
