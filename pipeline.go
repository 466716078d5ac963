package gotdt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotdt/processor"
	"github.com/ZaguanLabs/gotdt/terms"
)

// Pipeline is the document translation engine. It is safe for concurrent use.
type Pipeline struct {
	provider     Provider
	cache        TranslationCache
	mapper       *terms.Mapper
	shield       *processor.FormattingShield
	maxChunkSize int
	workers      int
	rateLimit    *RateLimitConfig
	logger       *slog.Logger
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithCache sets the chunk translation cache.
func WithCache(cache TranslationCache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithMapper sets the technical term mapper. Without one, the built-in
// dictionary is used and never persisted.
func WithMapper(mapper *terms.Mapper) PipelineOption {
	return func(p *Pipeline) {
		p.mapper = mapper
	}
}

// WithShield replaces the default formatting shield.
func WithShield(shield *processor.FormattingShield) PipelineOption {
	return func(p *Pipeline) {
		p.shield = shield
	}
}

// WithMaxChunkSize sets the soft chunk size limit in characters.
func WithMaxChunkSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxChunkSize = n
		}
	}
}

// WithWorkers sets how many chunks are translated concurrently.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithRateLimit wraps the provider in a RateLimitedProvider.
func WithRateLimit(cfg RateLimitConfig) PipelineOption {
	return func(p *Pipeline) {
		p.rateLimit = &cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a Pipeline around provider.
func NewPipeline(provider Provider, opts ...PipelineOption) (*Pipeline, error) {
	if provider == nil {
		return nil, &ConfigurationError{Message: "a translation provider is required"}
	}

	p := &Pipeline{
		provider:     provider,
		maxChunkSize: DefaultMaxChunkSize,
		workers:      1,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.shield == nil {
		p.shield = processor.NewFormattingShield()
	}
	if p.mapper == nil {
		p.mapper = terms.NewMapperFromDictionary(terms.DefaultDictionary())
	}
	if p.rateLimit != nil {
		p.provider = NewRateLimitedProvider(p.provider, *p.rateLimit)
	}

	return p, nil
}

// TranslateDocument runs the whole pipeline on doc.
//
// Chunks the provider fails on are kept in the source language and counted
// in FailedChunks. When ctx is done the call fails with no partial result.
func (p *Pipeline) TranslateDocument(ctx context.Context, doc Document) (result *TranslationResult, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("translation panicked", "panic", r)
			result = nil
			err = &InternalError{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if strings.TrimSpace(doc.Text) == "" {
		return nil, &ValidationError{Code: CodeEmptyText, Message: "no text provided"}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("translation cancelled: %w", err)
	}

	text := doc.Text
	var shield processor.ShieldResult
	if doc.PreserveFormatting {
		shield = p.shield.Shield(text)
		text = shield.Text
	}

	chunks := processor.Segment(text, p.maxChunkSize)

	outcomes, err := p.translateChunks(ctx, chunks, doc.SourceLang, doc.TargetLang)
	if err != nil {
		var internal *InternalError
		if errors.As(err, &internal) {
			p.logger.Error("chunk worker panicked", "error", err)
			return nil, internal
		}
		return nil, fmt.Errorf("translation cancelled: %w", err)
	}

	translated := make([]string, len(outcomes))
	failed, cached := 0, 0
	for i, o := range outcomes {
		translated[i] = o.text
		if o.cached {
			cached++
		}
		if o.err != nil {
			failed++
			p.logger.Warn("chunk translation failed, keeping original text",
				"chunk", i,
				"source", doc.SourceLang,
				"target", doc.TargetLang,
				"error", o.err)
		}
	}

	text = strings.Join(translated, processor.ParagraphSeparator)

	// Only HTML documents get lang/dir, set while protected spans are still
	// placeholders so re-serializing the document cannot alter them.
	if doc.PreserveFormatting && processor.IsHTMLDocument(doc.Text) {
		text = processor.SetDocumentLang(text, ToHTMLLang(doc.TargetLang), GetDirection(doc.TargetLang))
	}

	// Restored spans and tag tokens are excluded from term mapping so code,
	// literal markup and attribute values stay byte-for-byte.
	var protected [][2]int
	if shield.Shielded() {
		var ranges []processor.Range
		text, ranges = processor.UnshieldRanges(text, shield)
		for _, r := range ranges {
			protected = append(protected, [2]int{r.Start, r.End})
		}
	}
	if doc.PreserveFormatting {
		for _, r := range processor.TagRanges(text) {
			protected = append(protected, [2]int{r.Start, r.End})
		}
	}

	text = p.mapper.ApplyProtected(text, doc.SourceLang, doc.TargetLang, protected)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("translation cancelled: %w", err)
	}

	elapsed := time.Since(start)
	p.logger.Debug("document translated",
		"source", doc.SourceLang,
		"target", doc.TargetLang,
		"chunks", len(chunks),
		"failed", failed,
		"cached", cached,
		"elapsed", elapsed)

	return &TranslationResult{
		TranslatedText:   text,
		Confidence:       DefaultConfidence,
		DetectedLanguage: doc.SourceLang,
		TranslationTime:  elapsed,
		ChunkCount:       len(chunks),
		FailedChunks:     failed,
		CachedChunks:     cached,
	}, nil
}

// Translate is a convenience wrapper for plain text with formatting
// preserved.
func (p *Pipeline) Translate(ctx context.Context, text, sourceLang, targetLang string) (*TranslationResult, error) {
	return p.TranslateDocument(ctx, Document{
		Text:               text,
		SourceLang:         sourceLang,
		TargetLang:         targetLang,
		PreserveFormatting: true,
	})
}

// ProviderName returns the name of the configured provider.
func (p *Pipeline) ProviderName() string {
	return p.provider.Name()
}

// SupportedLanguages returns a copy of the supported language table.
func (p *Pipeline) SupportedLanguages() map[string]string {
	out := make(map[string]string, len(SupportedLanguages))
	for code, name := range SupportedLanguages {
		out[code] = name
	}
	return out
}

// TechnicalTerms returns a snapshot of the term dictionary.
func (p *Pipeline) TechnicalTerms() terms.Dictionary {
	return p.mapper.Dictionary()
}

// AddTechnicalTerm adds a term to the dictionary and persists it.
func (p *Pipeline) AddTechnicalTerm(sourceLang, term, targetLang, translation string) error {
	if err := p.mapper.AddTerm(sourceLang, term, targetLang, translation); err != nil {
		if errors.Is(err, terms.ErrInvalidTerm) {
			return &ValidationError{Code: CodeInvalidTerm, Message: err.Error()}
		}
		return err
	}
	return nil
}
