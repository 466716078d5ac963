package gotdt

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ZaguanLabs/gotdt/processor"
)

// chunkOutcome is the result for one chunk. A failed chunk carries its
// original text and a *ChunkTranslationError.
type chunkOutcome struct {
	text   string
	cached bool
	err    error
}

// translateChunks translates every chunk, in parallel when more than one
// worker is configured. Outcomes are stored by chunk index so the output
// order never depends on completion order.
//
// Per-chunk provider failures are recorded in the outcome. The returned
// error is non-nil only when ctx is done or a worker panicked.
func (p *Pipeline) translateChunks(ctx context.Context, chunks []string, sourceLang, targetLang string) ([]chunkOutcome, error) {
	outcomes := make([]chunkOutcome, len(chunks))

	workers := p.workers
	if workers <= 0 {
		workers = 1
	}

	if workers == 1 || len(chunks) < 2 {
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = p.translateChunk(ctx, i, chunk, sourceLang, targetLang)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return outcomes, nil
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var panicErr error
	var panicOnce sync.Once

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(i int, chunk string) {
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() {
						panicErr = &InternalError{Cause: fmt.Errorf("chunk %d: panic: %v", i, r)}
					})
				}
				<-sem
				wg.Done()
			}()

			outcomes[i] = p.translateChunk(ctx, i, chunk, sourceLang, targetLang)
		}(i, chunk)
	}

	wg.Wait()

	if panicErr != nil {
		return nil, panicErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// translateChunk translates a single chunk, consulting the cache first.
// Blank chunks and chunks made only of placeholders pass through untouched.
func (p *Pipeline) translateChunk(ctx context.Context, index int, chunk, sourceLang, targetLang string) chunkOutcome {
	if strings.TrimSpace(chunk) == "" || processor.OnlyPlaceholders(chunk) {
		return chunkOutcome{text: chunk}
	}

	var key string
	if p.cache != nil {
		key = ChunkCacheKey(chunk, sourceLang, targetLang, p.provider.Name())
		if cached, ok := p.cache.Get(key); ok {
			return chunkOutcome{text: cached, cached: true}
		}
	}

	translated, err := p.provider.Translate(ctx, TranslateRequest{
		Text:       chunk,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		return chunkOutcome{
			text: chunk,
			err:  &ChunkTranslationError{Index: index, Cause: err},
		}
	}

	if p.cache != nil {
		if err := p.cache.Set(key, translated); err != nil {
			p.logger.Warn("chunk cache write failed", "chunk", index, "error", err)
		}
	}

	return chunkOutcome{text: translated}
}
