package provider

import (
	"context"
	"sync"
)

// MockProvider is a deterministic provider for tests and offline runs.
// Unknown texts are returned as "[<target>] <text>". It is safe for
// concurrent use.
type MockProvider struct {
	mu           sync.Mutex
	translations map[string]string
	failures     map[string]error
	callCount    int
	lastRequest  *TranslateRequest
}

// NewMockProvider creates a new mock provider with a few default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		translations: map[string]string{
			"Hello world.":                  "Olá mundo.",
			"Hello":                         "Olá",
			"Welcome to the documentation.": "Bem-vindo à documentação.",
		},
		failures: make(map[string]error),
	}
}

// Name implements gotdt.Provider.
func (m *MockProvider) Name() string {
	return "mock"
}

// SetTranslation registers the translation returned for text.
func (m *MockProvider) SetTranslation(text, translation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[text] = translation
}

// FailOn makes Translate return err whenever it is asked for text.
func (m *MockProvider) FailOn(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[text] = err
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := m.failures[req.Text]; ok {
		return "", err
	}
	if translation, ok := m.translations[req.Text]; ok {
		return translation, nil
	}
	return "[" + req.TargetLang + "] " + req.Text, nil
}

// Ping always succeeds.
func (m *MockProvider) Ping(ctx context.Context) error {
	return nil
}

// CallCount returns how many times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements Provider and Pinger
var (
	_ Provider = (*MockProvider)(nil)
	_ Pinger   = (*MockProvider)(nil)
)
