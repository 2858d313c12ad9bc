package service

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/openrag/docsearch-be/types"
)

const (
	// MaxCleanedLength caps cleaned text; longer documents are silently
	// truncated.
	MaxCleanedLength = 100000
	// MinChunkLength drops degenerate documents and chunks before any
	// index is assigned.
	MinChunkLength = 10
)

var (
	// C0 controls except \n and \t, plus DEL. Crawled documents carry
	// these from broken HTML-to-markdown conversions.
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	// Line-anchored markdown headers, 1-6 marks.
	headerPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
)

// TransformService turns crawled source documents into upsert-ready chunk
// records.
type TransformService struct {
	logger *slog.Logger
}

func NewTransformService(logger *slog.Logger) *TransformService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformService{logger: logger}
}

// CleanText normalizes raw extracted text: literal \n and \" escape
// sequences become real characters (source documents arrive doubly
// escaped), control characters are stripped and the result is capped at
// MaxCleanedLength characters. Empty input yields empty output. Running
// CleanText on already-clean text is a no-op.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, `\n`, "\n")
	text = strings.ReplaceAll(text, `\"`, `"`)

	text = controlCharPattern.ReplaceAllString(text, "")

	if utf8.RuneCountInString(text) > MaxCleanedLength {
		runes := []rune(text)
		text = string(runes[:MaxCleanedLength])
	}

	return text
}

// ChunkMarkdownByHeaders splits cleaned markdown into header-scoped chunks
// in document order. A document with no headers yields exactly one chunk
// with an empty header and level 0. Content before the first header, if
// non-empty after trimming, becomes an "Introduction" chunk. Each header's
// chunk spans from the header line to the start of the next header, or to
// the end of text for the last one.
func ChunkMarkdownByHeaders(text string) []types.Chunk {
	if text == "" {
		return nil
	}

	matches := headerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []types.Chunk{{Text: text, Header: "", Level: 0}}
	}

	var chunks []types.Chunk

	if first := matches[0][0]; first > 0 {
		intro := strings.TrimSpace(text[:first])
		if intro != "" {
			chunks = append(chunks, types.Chunk{
				Text:   intro,
				Header: "Introduction",
				Level:  0,
			})
		}
	}

	for i, m := range matches {
		level := m[3] - m[2] // number of # marks
		header := text[m[4]:m[5]]

		end := len(text)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}

		chunkText := strings.TrimSpace(text[m[0]:end])
		if chunkText == "" {
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text:   chunkText,
			Header: header,
			Level:  level,
		})
	}

	return chunks
}

// TransformDocument turns one source document into zero or more chunk
// records. Documents without markdown, or whose cleaned text is shorter
// than MinChunkLength, are skipped with a log line. Chunks below
// MinChunkLength are dropped before indices are assigned, so ChunkIndex
// is dense and TotalChunks counts only retained chunks. A bad document
// never stops its siblings: the worst case is an empty result.
func (s *TransformService) TransformDocument(doc types.SourceDocument) []types.ChunkRecord {
	meta := doc.Metadata
	if meta.URL == "" {
		meta.URL = doc.URL
	}

	if doc.Markdown == "" {
		s.logger.Info("skipping document with no markdown content", "url", meta.URL)
		return nil
	}

	cleaned := CleanText(doc.Markdown)
	if utf8.RuneCountInString(cleaned) < MinChunkLength {
		s.logger.Info("skipping document with insufficient content after cleaning", "url", meta.URL)
		return nil
	}

	chunks := ChunkMarkdownByHeaders(cleaned)

	retained := chunks[:0]
	for _, chunk := range chunks {
		if utf8.RuneCountInString(strings.TrimSpace(chunk.Text)) < MinChunkLength {
			continue
		}
		retained = append(retained, chunk)
	}

	records := make([]types.ChunkRecord, 0, len(retained))
	for i, chunk := range retained {
		records = append(records, types.ChunkRecord{
			ID:   uuid.NewString(),
			Text: chunk.Text,
			Metadata: types.ChunkMetadata{
				URL:         meta.URL,
				Language:    meta.Language,
				Description: CleanText(meta.Description),
				Header:      chunk.Header,
				HeaderLevel: chunk.Level,
				ChunkIndex:  i,
				TotalChunks: len(retained),
				ParentDocID: meta.ID,
			},
		})
	}

	return records
}
