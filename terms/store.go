package terms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Store.Load when no dictionary has been saved yet.
var ErrNotFound = errors.New("term dictionary not found")

// Store loads and persists a whole dictionary.
type Store interface {
	Load() (Dictionary, error)
	Save(d Dictionary) error
}

// FileStore keeps the dictionary in a single JSON or YAML file. The format
// is chosen by extension: .yaml and .yml are YAML, everything else is JSON.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the dictionary file. A missing file yields ErrNotFound.
func (s *FileStore) Load() (Dictionary, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	d := Dictionary{}
	if s.isYAML() {
		err = yaml.Unmarshal(data, &d)
	} else {
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	// An empty language table decodes as nil.
	for lang, table := range d {
		if table == nil {
			d[lang] = map[string]string{}
		}
	}

	return d, nil
}

// Save rewrites the whole file. The data is written to a temporary file in
// the same directory and renamed over the target.
func (s *FileStore) Save(d Dictionary) error {
	data, err := s.encode(d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

func (s *FileStore) encode(d Dictionary) ([]byte, error) {
	if s.isYAML() {
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// MemoryStore keeps the dictionary in memory. Useful for tests and for
// running without a dictionary file.
type MemoryStore struct {
	mu    sync.Mutex
	dict  Dictionary
	saves int
}

// NewMemoryStore creates a store. A nil dictionary behaves like a missing file.
func NewMemoryStore(d Dictionary) *MemoryStore {
	if d != nil {
		d = d.Clone()
	}
	return &MemoryStore{dict: d}
}

// Load returns a copy of the stored dictionary.
func (s *MemoryStore) Load() (Dictionary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dict == nil {
		return nil, ErrNotFound
	}
	return s.dict.Clone(), nil
}

// Save stores a copy of d.
func (s *MemoryStore) Save(d Dictionary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dict = d.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Verify implementations
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
