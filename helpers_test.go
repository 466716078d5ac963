package gotdt

import (
	"context"
	"sync"
	"time"
)

// stubProvider translates by lookup, falling back to "[<target>] <text>".
type stubProvider struct {
	mu           sync.Mutex
	translations map[string]string
	failures     map[string]error
	panicOn      string
	delay        time.Duration
	calls        int
	requests     []TranslateRequest
	inFlight     int
	maxInFlight  int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		translations: make(map[string]string),
		failures:     make(map[string]error),
	}
}

func (s *stubProvider) Name() string {
	return "stub"
}

func (s *stubProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, req)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}

	if s.panicOn != "" && req.Text == s.panicOn {
		panic("stub provider exploded")
	}
	if err, ok := s.failures[req.Text]; ok {
		return "", err
	}
	if out, ok := s.translations[req.Text]; ok {
		return out, nil
	}
	return "[" + req.TargetLang + "] " + req.Text, nil
}

func (s *stubProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubProvider) Requests() []TranslateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TranslateRequest(nil), s.requests...)
}

func (s *stubProvider) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

// mapCache is a minimal TranslationCache.
type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

var (
	_ Provider         = (*stubProvider)(nil)
	_ TranslationCache = (*mapCache)(nil)
)
