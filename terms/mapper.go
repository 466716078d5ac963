package terms

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrInvalidTerm is returned by AddTerm when a required field is blank.
var ErrInvalidTerm = errors.New("language, term and translation are required")

// Mapper owns the in-memory dictionary. Reads take a shared lock; AddTerm
// mutates and persists under an exclusive lock.
type Mapper struct {
	mu     sync.RWMutex
	dict   Dictionary
	store  Store
	logger *slog.Logger
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithLogger sets the logger used for dictionary lifecycle events.
func WithLogger(logger *slog.Logger) MapperOption {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// NewMapper loads the dictionary from store. When the store has no
// dictionary yet, DefaultDictionary is materialized and saved.
func NewMapper(store Store, opts ...MapperOption) (*Mapper, error) {
	m := &Mapper{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if store == nil {
		m.dict = DefaultDictionary()
		return m, nil
	}

	d, err := store.Load()
	switch {
	case errors.Is(err, ErrNotFound):
		d = DefaultDictionary()
		if err := store.Save(d); err != nil {
			return nil, fmt.Errorf("saving default dictionary: %w", err)
		}
		m.logger.Info("term dictionary created with defaults", "terms", d.Len())
	case err != nil:
		return nil, fmt.Errorf("loading term dictionary: %w", err)
	default:
		m.logger.Debug("term dictionary loaded", "languages", len(d), "terms", d.Len())
	}

	m.dict = d
	return m, nil
}

// NewMapperFromDictionary creates a Mapper that never persists.
func NewMapperFromDictionary(d Dictionary) *Mapper {
	return &Mapper{
		dict:   d.Clone(),
		logger: slog.Default(),
	}
}

// Apply rewrites known terms in text for the given language pair.
func (m *Mapper) Apply(text, sourceLang, targetLang string) string {
	m.mu.RLock()
	rules := BuildRules(m.dict, sourceLang, targetLang)
	m.mu.RUnlock()

	return ApplyRules(text, rules)
}

// ApplyProtected is Apply that leaves the byte ranges in protected untouched.
func (m *Mapper) ApplyProtected(text, sourceLang, targetLang string, protected [][2]int) string {
	m.mu.RLock()
	rules := BuildRules(m.dict, sourceLang, targetLang)
	m.mu.RUnlock()

	return ApplyRulesProtected(text, rules, protected)
}

// AddTerm sets term → translation in the sourceLang table, makes sure a
// targetLang table exists, and persists the dictionary before returning.
// If persisting fails the in-memory dictionary is left as it was.
func (m *Mapper) AddTerm(sourceLang, term, targetLang, translation string) error {
	sourceLang = strings.TrimSpace(sourceLang)
	targetLang = strings.TrimSpace(targetLang)
	if sourceLang == "" || targetLang == "" || strings.TrimSpace(term) == "" || strings.TrimSpace(translation) == "" {
		return ErrInvalidTerm
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.dict.Clone()
	if next[sourceLang] == nil {
		next[sourceLang] = map[string]string{}
	}
	if next[targetLang] == nil {
		next[targetLang] = map[string]string{}
	}
	next[sourceLang][term] = translation

	if m.store != nil {
		if err := m.store.Save(next); err != nil {
			return fmt.Errorf("saving term dictionary: %w", err)
		}
	}

	m.dict = next
	m.logger.Info("technical term added",
		"source", sourceLang, "term", term, "target", targetLang)
	return nil
}

// Dictionary returns a deep copy of the current dictionary.
func (m *Mapper) Dictionary() Dictionary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dict.Clone()
}

// Languages returns the language tags that have a table.
func (m *Mapper) Languages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dict.Languages()
}
