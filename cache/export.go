package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportVersion is the schema version written by Exporter.
const ExportVersion = "1.0"

// ErrNotEnumerable is returned when exporting from a backend that cannot list its entries.
var ErrNotEnumerable = errors.New("cache backend does not support export")

// ExportFormat is the JSON document written by Export and read by Import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []Entry           `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Exporter dumps chunk translations so a cache can be moved between
// backends or warmed on another host.
type Exporter struct {
	cache TranslationCache
}

// NewExporter creates a new cache exporter.
func NewExporter(cache TranslationCache) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the cache contents to w as indented JSON.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	src, ok := e.cache.(Enumerable)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotEnumerable, e.cache)
	}

	entries, err := src.All()
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	doc := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the cache to a file.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := e.Export(f, metadata); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Importer loads an export document into a cache.
type Importer struct {
	cache TranslationCache
}

// NewImporter creates a new cache importer.
func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int
	Failed   int
}

// Import reads entries from r and stores them. Entries with an empty key or
// value are skipped; entries the backend rejects are counted as failed.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var doc ExportFormat
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  doc.Version,
		Metadata: doc.Metadata,
	}

	for _, entry := range doc.Entries {
		if entry.Key == "" || entry.Value == "" {
			result.Skipped++
			continue
		}
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}
