package service_test

import (
	"testing"

	"github.com/openrag/docsearch-be/service"
	"github.com/openrag/docsearch-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordWithLanguage(id, lang string) types.ChunkRecord {
	return types.ChunkRecord{
		ID:       id,
		Text:     "some chunk text",
		Metadata: types.ChunkMetadata{Language: lang},
	}
}

func TestFilterByLanguage(t *testing.T) {
	t.Parallel()

	t.Run("keeps only exact tag matches", func(t *testing.T) {
		t.Parallel()

		records := []types.ChunkRecord{
			recordWithLanguage("a", "en"),
			recordWithLanguage("b", "fr"),
			recordWithLanguage("c", ""),
		}
		matching, nonMatching := service.FilterByLanguage(records, "en")

		require.Len(t, matching, 1)
		assert.Equal(t, "a", matching[0].ID)
		assert.Equal(t, 2, nonMatching)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		records := []types.ChunkRecord{
			recordWithLanguage("a", "EN"),
			recordWithLanguage("b", "en-US"),
		}
		matching, nonMatching := service.FilterByLanguage(records, "en")

		require.Len(t, matching, 1)
		assert.Equal(t, "a", matching[0].ID)
		assert.Equal(t, 1, nonMatching, "regional variants are not exact matches")
	})

	t.Run("missing tags never match", func(t *testing.T) {
		t.Parallel()

		matching, nonMatching := service.FilterByLanguage([]types.ChunkRecord{
			recordWithLanguage("a", ""),
		}, "")

		assert.Empty(t, matching)
		assert.Equal(t, 1, nonMatching)
	})

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		records := []types.ChunkRecord{
			recordWithLanguage("a", "en"),
			recordWithLanguage("b", "de"),
			recordWithLanguage("c", "en"),
		}
		matching, _ := service.FilterByLanguage(records, "en")

		require.Len(t, matching, 2)
		assert.Equal(t, "a", matching[0].ID)
		assert.Equal(t, "c", matching[1].ID)
	})
}
