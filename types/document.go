package types

// SourceDocument is one crawled page as produced by the scraper: raw
// markdown plus page metadata. Documents are read once, transformed into
// chunk records and discarded.
type SourceDocument struct {
	URL      string           `json:"url,omitempty"`
	Title    string           `json:"title,omitempty"`
	Markdown string           `json:"markdown"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata contains additional page information from the crawl.
type DocumentMetadata struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
}

// Chunk is one header-scoped segment of a document's markdown. Level 0
// marks headerless or introductory content.
type Chunk struct {
	Text   string `json:"text"`
	Header string `json:"header"`
	Level  int    `json:"level"`
}

// ChunkRecord is the persisted and transmitted form of a Chunk, ready for
// an integrated-embedding upsert. IDs are assigned once at transform time
// and never reused, so re-sending a record overwrites instead of
// duplicating.
type ChunkRecord struct {
	ID       string        `json:"_id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata carries the parent document fields plus the chunk's own
// position within the retained chunk sequence. ChunkIndex is zero-based
// and dense: 0 <= ChunkIndex < TotalChunks.
type ChunkMetadata struct {
	URL         string `json:"url"`
	Language    string `json:"language"`
	Description string `json:"description"`
	Header      string `json:"header"`
	HeaderLevel int    `json:"header_level"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	ParentDocID string `json:"parent_doc_id"`
}
