package gotdt

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// AutoDetect as a source language asks the provider to detect the language.
const AutoDetect = "auto"

// DefaultConfidence is reported for every successful translation. The
// providers in use do not return a score.
const DefaultConfidence = 0.95

// Default limits.
const (
	DefaultMaxChunkSize  = 5000
	DefaultMaxTextLength = 100000
)

// Document is one translation request. It is not modified by the pipeline.
type Document struct {
	Text               string
	SourceLang         string // Language tag or AutoDetect
	TargetLang         string
	PreserveFormatting bool // Shield code and literal markup from the provider
}

// TranslationResult is the outcome of translating a Document.
type TranslationResult struct {
	TranslatedText   string
	Confidence       float64
	DetectedLanguage string        // Echo of the requested source language
	TranslationTime  time.Duration // Wall clock for the whole call
	ChunkCount       int           // Chunks produced by segmentation
	FailedChunks     int           // Chunks kept untranslated after a provider failure
	CachedChunks     int           // Chunks served from the cache
}

// MarshalJSON renders the result with snake_case keys and the translation
// time in seconds rounded to two decimals.
func (r TranslationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TranslatedText   string  `json:"translated_text"`
		Confidence       float64 `json:"confidence"`
		DetectedLanguage string  `json:"detected_language"`
		TranslationTime  float64 `json:"translation_time"`
		ChunkCount       int     `json:"chunk_count"`
		FailedChunks     int     `json:"failed_chunks"`
		CachedChunks     int     `json:"cached_chunks"`
	}{
		TranslatedText:   r.TranslatedText,
		Confidence:       r.Confidence,
		DetectedLanguage: r.DetectedLanguage,
		TranslationTime:  Seconds(r.TranslationTime),
		ChunkCount:       r.ChunkCount,
		FailedChunks:     r.FailedChunks,
		CachedChunks:     r.CachedChunks,
	})
}

// Seconds converts d to seconds rounded to two decimals.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// Provider is the interface for translation backends. Implementations must
// be safe for concurrent use.
type Provider interface {
	// Name identifies the backend; it is part of every cache key.
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TranslateRequest is a single unit of text sent to a Provider.
type TranslateRequest struct {
	Text       string
	SourceLang string // Language tag or AutoDetect
	TargetLang string
}

// TranslationCache is the interface for chunk translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
