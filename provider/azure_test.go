package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/gotdt"
)

func newAzureTestServer(t *testing.T, handler http.HandlerFunc) (*AzureProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAzureProvider(AzureConfig{
		Key:      "secret",
		Endpoint: server.URL + "/",
		Region:   "westeurope",
	})
	if err != nil {
		t.Fatalf("NewAzureProvider failed: %v", err)
	}
	return p, server
}

func TestNewAzureProvider_MissingSettings(t *testing.T) {
	_, err := NewAzureProvider(AzureConfig{})

	var ce *gotdt.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
	if len(ce.Missing) != 2 {
		t.Errorf("Expected key and endpoint missing, got %v", ce.Missing)
	}
}

func TestAzureProvider_Translate(t *testing.T) {
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/translate" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api-version") != "3.0" || q.Get("to") != "pt" || q.Get("from") != "en" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "secret" {
			t.Error("Missing subscription key header")
		}
		if r.Header.Get("Ocp-Apim-Subscription-Region") != "westeurope" {
			t.Error("Missing region header")
		}

		var body []map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if len(body) != 1 || body[0]["text"] != "Hello world." {
			t.Errorf("Unexpected body: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"translations":[{"text":"Olá mundo.","to":"pt"}]}]`))
	})

	got, err := p.Translate(context.Background(), TranslateRequest{
		Text:       "Hello world.",
		SourceLang: "en",
		TargetLang: "pt",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Olá mundo." {
		t.Errorf("Expected %q, got %q", "Olá mundo.", got)
	}
}

func TestAzureProvider_AutoDetectOmitsFrom(t *testing.T) {
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("from") {
			t.Errorf("from must be omitted for auto detection: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"detectedLanguage":{"language":"en","score":1.0},"translations":[{"text":"Olá","to":"pt"}]}]`))
	})

	got, err := p.Translate(context.Background(), TranslateRequest{
		Text:       "Hello",
		SourceLang: gotdt.AutoDetect,
		TargetLang: "pt",
	})
	if err != nil || got != "Olá" {
		t.Errorf("Expected Olá, got %q (%v)", got, err)
	}
}

func TestAzureProvider_EmptyTranslations(t *testing.T) {
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"translations":[]}]`))
	})

	got, err := p.Translate(context.Background(), TranslateRequest{Text: "Keep me", SourceLang: "en", TargetLang: "pt"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Keep me" {
		t.Errorf("Expected original text, got %q", got)
	}
}

func TestAzureProvider_ErrorResponse(t *testing.T) {
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401000,"message":"The request is not authorized"}}`))
	})

	_, err := p.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "pt"})

	var pe *gotdt.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", pe.StatusCode)
	}
	if pe.Message != "azure translate: The request is not authorized" {
		t.Errorf("Unexpected message: %q", pe.Message)
	}
}

func TestAzureProvider_ContextCancelled(t *testing.T) {
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Translate(ctx, TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "pt"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAzureProvider_Ping(t *testing.T) {
	status := http.StatusOK
	p, _ := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/languages" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	})

	if err := Ping(context.Background(), p); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	status = http.StatusServiceUnavailable
	if err := p.Ping(context.Background()); err == nil {
		t.Error("Expected Ping error on 503")
	}
}

func TestAzureProvider_Name(t *testing.T) {
	p, _ := NewAzureProvider(AzureConfig{Key: "k", Endpoint: "http://localhost"})
	if p.Name() != "azure" {
		t.Errorf("Unexpected name %q", p.Name())
	}
}
