package service

import (
	"strings"

	"github.com/openrag/docsearch-be/types"
)

// FilterByLanguage partitions records by their language metadata tag,
// returning the matching subsequence in input order plus the count of
// non-matching records. Matching is a case-insensitive exact comparison;
// records without a tag never match.
func FilterByLanguage(records []types.ChunkRecord, tag string) ([]types.ChunkRecord, int) {
	want := strings.ToLower(tag)
	var matching []types.ChunkRecord
	nonMatching := 0
	for _, rec := range records {
		lang := strings.ToLower(rec.Metadata.Language)
		if lang != "" && lang == want {
			matching = append(matching, rec)
		} else {
			nonMatching++
		}
	}
	return matching, nonMatching
}
