package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrag/docsearch-be/types"
)

const (
	// ChunkedPrefix marks files holding transformed chunk records.
	ChunkedPrefix = "chunked_"
	// ChunkedDirName is the subdirectory transformed files are written to.
	ChunkedDirName = "chunked"
)

// FileService moves documents and chunk records between pipeline stages
// as JSON files. Each stage reads the files of the previous one and
// mirrors them into a stage-specific location under a new name prefix.
type FileService struct {
	transform *TransformService
	logger    *slog.Logger
}

func NewFileService(transform *TransformService, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileService{
		transform: transform,
		logger:    logger,
	}
}

// ProcessDirectory transforms every JSON file in inputDir into chunk
// records, writing each file's chunks to <inputDir>/chunked/chunked_<name>.
// Hidden files are ignored and a malformed file is logged and skipped
// without affecting its siblings. Returns the total number of chunks
// written.
func (s *FileService) ProcessDirectory(inputDir string) (int, error) {
	chunkedDir := filepath.Join(inputDir, ChunkedDirName)
	if err := os.MkdirAll(chunkedDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create chunked directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list input files: %w", err)
	}

	totalChunks := 0
	for _, file := range files {
		name := filepath.Base(file)
		if strings.HasPrefix(name, ".") {
			continue
		}
		s.logger.Info("processing file", "file", name)

		docs, err := LoadSourceDocuments(file)
		if err != nil {
			s.logger.Error("skipping unreadable file", "file", name, "error", err)
			continue
		}

		var transformed []types.ChunkRecord
		for _, doc := range docs {
			transformed = append(transformed, s.transform.TransformDocument(doc)...)
		}
		if len(transformed) == 0 {
			s.logger.Info("no valid documents found", "file", name)
			continue
		}

		outFile := filepath.Join(chunkedDir, ChunkedPrefix+name)
		if err := WriteJSONFile(outFile, transformed); err != nil {
			s.logger.Error("failed to write chunk file", "file", outFile, "error", err)
			continue
		}
		s.logger.Info("saved chunks", "count", len(transformed), "file", outFile)
		totalChunks += len(transformed)
	}

	return totalChunks, nil
}

// LoadChunkRecords reads every prefix*.json file in dir into one flat
// record slice, preserving file and record order. Malformed files are
// logged and skipped.
func (s *FileService) LoadChunkRecords(dir, prefix string) ([]types.ChunkRecord, error) {
	files, err := filepath.Glob(filepath.Join(dir, prefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk files: %w", err)
	}

	var records []types.ChunkRecord
	for _, file := range files {
		s.logger.Info("loading file", "file", filepath.Base(file))
		recs, err := loadArrayOrSingle[types.ChunkRecord](file)
		if err != nil {
			s.logger.Error("skipping unreadable file", "file", filepath.Base(file), "error", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// ExtractLanguage copies the records matching tag from every chunked_*.json
// file in chunkedDir into outputDir under an added language prefix, e.g.
// en_chunked_page.json. Returns total records seen, records matched and
// files written.
func (s *FileService) ExtractLanguage(chunkedDir, outputDir, tag string) (total, matched, written int, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(chunkedDir, ChunkedPrefix+"*.json"))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list chunk files: %w", err)
	}

	for _, file := range files {
		name := filepath.Base(file)
		s.logger.Info("processing file", "file", name)

		records, err := loadArrayOrSingle[types.ChunkRecord](file)
		if err != nil {
			s.logger.Error("skipping unreadable file", "file", name, "error", err)
			continue
		}
		total += len(records)

		matchingOnly, _ := FilterByLanguage(records, tag)
		if len(matchingOnly) == 0 {
			s.logger.Info("no matching chunks found", "file", name, "language", tag)
			continue
		}
		matched += len(matchingOnly)

		outFile := filepath.Join(outputDir, strings.ToLower(tag)+"_"+name)
		if err := WriteJSONFile(outFile, matchingOnly); err != nil {
			s.logger.Error("failed to write language file", "file", outFile, "error", err)
			continue
		}
		written++
		s.logger.Info("saved language chunks", "count", len(matchingOnly), "file", outFile)
	}

	return total, matched, written, nil
}

// LoadSourceDocuments reads one crawl file holding either a JSON array of
// documents or a single document object.
func LoadSourceDocuments(path string) ([]types.SourceDocument, error) {
	return loadArrayOrSingle[types.SourceDocument](path)
}

// WriteJSONFile writes v as human-readable, UTF-8 JSON. Non-ASCII text is
// preserved as-is.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadArrayOrSingle tolerates both shapes the crawler emits: a JSON array
// of records or a bare record object.
func loadArrayOrSingle[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("file is neither a record array nor a single record: %w", err)
	}
	return []T{single}, nil
}
