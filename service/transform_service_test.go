package service_test

import (
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/openrag/docsearch-be/service"
	"github.com/openrag/docsearch-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", service.CleanText(""))
	})

	t.Run("resolves literal escape sequences", func(t *testing.T) {
		t.Parallel()
		got := service.CleanText(`line one\nline two with \"quotes\"`)
		assert.Equal(t, "line one\nline two with \"quotes\"", got)
	})

	t.Run("strips control characters but keeps newline and tab", func(t *testing.T) {
		t.Parallel()

		got := service.CleanText("a\x00b\x07c\x0bd\x7fe\nf\tg")
		assert.Equal(t, "abcde\nf\tg", got)

		for _, r := range got {
			if r == '\n' || r == '\t' {
				continue
			}
			assert.False(t, r < 0x20 || r == 0x7f, "control character %q survived", r)
		}
	})

	t.Run("truncates to the maximum length", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", service.MaxCleanedLength+500)
		got := service.CleanText(long)
		assert.Equal(t, service.MaxCleanedLength, utf8.RuneCountInString(got))
	})

	t.Run("is a no-op on already-clean text", func(t *testing.T) {
		t.Parallel()

		once := service.CleanText("# Title\n\nSome body text with\ttabs and \"quotes\".")
		assert.Equal(t, once, service.CleanText(once))
	})
}

func TestChunkMarkdownByHeaders(t *testing.T) {
	t.Parallel()

	t.Run("splits on headers with level from mark count", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("# A\ntext1\n## B\ntext2")

		require.Len(t, chunks, 2)
		assert.Equal(t, "A", chunks[0].Header)
		assert.Equal(t, 1, chunks[0].Level)
		assert.Equal(t, "# A\ntext1", chunks[0].Text)
		assert.Equal(t, "B", chunks[1].Header)
		assert.Equal(t, 2, chunks[1].Level)
		assert.Equal(t, "## B\ntext2", chunks[1].Text)
	})

	t.Run("no headers yields a single level-zero chunk", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("no headers here")

		require.Len(t, chunks, 1)
		assert.Equal(t, "no headers here", chunks[0].Text)
		assert.Equal(t, "", chunks[0].Header)
		assert.Equal(t, 0, chunks[0].Level)
	})

	t.Run("content before the first header becomes an introduction", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("preamble text\n# A\nbody")

		require.Len(t, chunks, 2)
		assert.Equal(t, "Introduction", chunks[0].Header)
		assert.Equal(t, 0, chunks[0].Level)
		assert.Equal(t, "preamble text", chunks[0].Text)
	})

	t.Run("no introduction when the first header starts at offset zero", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("# A\nbody")

		require.Len(t, chunks, 1)
		assert.Equal(t, "A", chunks[0].Header)
	})

	t.Run("no introduction for whitespace-only preamble", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("\n\n# A\nbody")

		require.Len(t, chunks, 1)
		assert.Equal(t, "A", chunks[0].Header)
	})

	t.Run("keeps repeated headers in document order", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("# Same\none\n# Same\ntwo\n### Deep\nthree")

		require.Len(t, chunks, 3)
		assert.Equal(t, "Same", chunks[0].Header)
		assert.Equal(t, "one", strings.SplitN(chunks[0].Text, "\n", 2)[1])
		assert.Equal(t, "Same", chunks[1].Header)
		assert.Equal(t, "two", strings.SplitN(chunks[1].Text, "\n", 2)[1])
		assert.Equal(t, 3, chunks[2].Level)
	})

	t.Run("seven or more marks is not a header", func(t *testing.T) {
		t.Parallel()

		chunks := service.ChunkMarkdownByHeaders("####### not a header\nplain")

		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].Level)
	})

	t.Run("is a fixed point on a single-header chunk", func(t *testing.T) {
		t.Parallel()

		first := service.ChunkMarkdownByHeaders("# A\ntext1")
		require.Len(t, first, 1)
		again := service.ChunkMarkdownByHeaders(first[0].Text)
		require.Len(t, again, 1)
		assert.Equal(t, first[0], again[0])
	})
}

func TestTransformDocument(t *testing.T) {
	t.Parallel()

	newService := func() *service.TransformService {
		return service.NewTransformService(slog.Default())
	}

	doc := func(markdown string) types.SourceDocument {
		return types.SourceDocument{
			Markdown: markdown,
			Metadata: types.DocumentMetadata{
				ID:          "doc-1",
				URL:         "https://docs.example.com/page",
				Language:    "en",
				Description: `a \"description\"`,
			},
		}
	}

	t.Run("empty markdown yields no records", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, newService().TransformDocument(doc("")))
	})

	t.Run("too-short content yields no records", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, newService().TransformDocument(doc("tiny")))
	})

	t.Run("indices are dense over the retained chunks", func(t *testing.T) {
		t.Parallel()

		// The middle section is below the minimum chunk length and must be
		// dropped before indices are assigned.
		markdown := "# First Section\nplenty of text for the first chunk here\n" +
			"## Tiny\nx\n" +
			"## Third Section\nand plenty of text for the last chunk too"
		records := newService().TransformDocument(doc(markdown))

		require.Len(t, records, 2)
		for i, rec := range records {
			assert.Equal(t, i, rec.Metadata.ChunkIndex)
			assert.Equal(t, 2, rec.Metadata.TotalChunks)
		}
		assert.Equal(t, "First Section", records[0].Metadata.Header)
		assert.Equal(t, "Third Section", records[1].Metadata.Header)
	})

	t.Run("records carry cleaned parent metadata", func(t *testing.T) {
		t.Parallel()

		records := newService().TransformDocument(doc("# Title\nenough body text to retain"))

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "https://docs.example.com/page", rec.Metadata.URL)
		assert.Equal(t, "en", rec.Metadata.Language)
		assert.Equal(t, `a "description"`, rec.Metadata.Description)
		assert.Equal(t, "doc-1", rec.Metadata.ParentDocID)
		assert.Equal(t, 1, rec.Metadata.HeaderLevel)
	})

	t.Run("every record gets a fresh unique identifier", func(t *testing.T) {
		t.Parallel()

		markdown := "# One\nfirst section body text\n# Two\nsecond section body text"
		records := newService().TransformDocument(doc(markdown))
		require.Len(t, records, 2)

		seen := map[string]bool{}
		for _, rec := range records {
			assert.NotEmpty(t, rec.ID)
			assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
			seen[rec.ID] = true
		}
	})

	t.Run("headerless document yields one whole-text chunk", func(t *testing.T) {
		t.Parallel()

		records := newService().TransformDocument(doc("just a plain paragraph with no headers"))

		require.Len(t, records, 1)
		assert.Equal(t, "", records[0].Metadata.Header)
		assert.Equal(t, 0, records[0].Metadata.HeaderLevel)
		assert.Equal(t, 1, records[0].Metadata.TotalChunks)
	})
}
