package gotdt

import (
	"context"
	"sync"
	"time"
)

// DefaultRequestsPerMinute applies when RateLimitConfig leaves the rate unset.
const DefaultRequestsPerMinute = 60

// RateLimitConfig bounds how fast chunks reach the provider.
type RateLimitConfig struct {
	RequestsPerMinute int
	// BurstSize defaults to RequestsPerMinute.
	BurstSize int
}

// RateLimiter is a token bucket shared by every chunk worker of a pipeline.
type RateLimiter struct {
	mu       sync.Mutex
	capacity float64
	perSec   float64
	balance  float64
	updated  time.Time
	now      func() time.Time
}

// NewRateLimiter creates a full bucket for cfg.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return newRateLimiter(cfg, time.Now)
}

func newRateLimiter(cfg RateLimitConfig, now func() time.Time) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		capacity: float64(burst),
		perSec:   float64(rpm) / 60,
		balance:  float64(burst),
		updated:  now(),
		now:      now,
	}
}

// TryAcquire spends one token if the bucket holds one.
func (r *RateLimiter) TryAcquire() bool {
	_, ok := r.reserve()
	return ok
}

// Wait blocks until a token is spent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay, ok := r.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available reports the current token balance.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.top()
	return r.balance
}

// reserve spends a token, or reports how long until one is due.
func (r *RateLimiter) reserve() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.top()
	if r.balance >= 1 {
		r.balance--
		return 0, true
	}

	delay := time.Duration((1 - r.balance) / r.perSec * float64(time.Second))
	return max(delay, time.Millisecond), false
}

// top must be called with mu held.
func (r *RateLimiter) top() {
	now := r.now()
	if elapsed := now.Sub(r.updated); elapsed > 0 {
		r.balance = min(r.capacity, r.balance+elapsed.Seconds()*r.perSec)
	}
	r.updated = now
}

// RateLimitedProvider spends a token before every Translate call.
type RateLimitedProvider struct {
	provider Provider
	limiter  *RateLimiter
}

// NewRateLimitedProvider wraps provider with its own limiter.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  NewRateLimiter(cfg),
	}
}

// Name is the wrapped provider's name, so chunk cache keys do not change
// when a limit is configured.
func (p *RateLimitedProvider) Name() string {
	return p.provider.Name()
}

// Translate implements Provider.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Message: "waiting for rate limit",
			Cause:   err,
		}
	}
	return p.provider.Translate(ctx, req)
}

// Ping forwards to the wrapped provider without spending a token. Providers
// that cannot be pinged report success.
func (p *RateLimitedProvider) Ping(ctx context.Context) error {
	if pinger, ok := p.provider.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Unwrap returns the wrapped provider.
func (p *RateLimitedProvider) Unwrap() Provider {
	return p.provider
}

// Limiter returns the underlying limiter.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}

var _ Provider = (*RateLimitedProvider)(nil)
