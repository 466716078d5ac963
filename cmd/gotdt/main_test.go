package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gotdt"
)

var configEnv = []string{
	"TRANSLATION_PROVIDER", "AZURE_TRANSLATOR_KEY", "AZURE_TRANSLATOR_ENDPOINT",
	"AZURE_TRANSLATOR_REGION", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"DEFAULT_SOURCE_LANGUAGE", "DEFAULT_TARGET_LANGUAGE", "MAX_TEXT_LENGTH",
	"MAX_CHUNK_SIZE", "TRANSLATION_WORKERS", "RATE_LIMIT_RPM", "TECHNICAL_TERMS_FILE",
	"CACHE_BACKEND", "CACHE_TTL", "REDIS_URL", "SQLITE_PATH", "PORT", "APP_ENV",
	"LOG_LEVEL", "REQUEST_TIMEOUT",
}

// setupEnv isolates the test from the caller's environment and selects the
// mock provider with a dictionary file in a temp dir. It returns the temp
// dir and the global flags every invocation should carry.
func setupEnv(t *testing.T) (string, []string) {
	t.Helper()
	for _, name := range configEnv {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TRANSLATION_PROVIDER", "mock")
	t.Setenv("TECHNICAL_TERMS_FILE", filepath.Join(dir, "terms.json"))
	t.Setenv("LOG_LEVEL", "error")

	return dir, []string{"--env-file", envFile}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, gotdt.Name+" "+gotdt.Version) {
		t.Errorf("expected version output, got: %s", stdout)
	}
}

func TestRun_Languages(t *testing.T) {
	stdout, _, err := runCLI(t, "", "languages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != len(gotdt.SupportedLanguages) {
		t.Errorf("expected %d languages, got %d:\n%s", len(gotdt.SupportedLanguages), len(lines), stdout)
	}
	if !strings.Contains(stdout, "rtl") {
		t.Errorf("expected an RTL language in output:\n%s", stdout)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if _, _, err := runCLI(t, "", "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestRun_TranslateStdin(t *testing.T) {
	_, global := setupEnv(t)

	stdout, stderr, err := runCLI(t, "Hello world.", append(global, "translate", "--to", "pt")...)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}
	if stdout != "Olá mundo." {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "Translating stdin to pt") {
		t.Errorf("expected progress on stderr, got %q", stderr)
	}
}

func TestRun_TranslateQuietJSON(t *testing.T) {
	_, global := setupEnv(t)

	stdout, stderr, err := runCLI(t, "Hello", append(global, "translate", "--json", "-q")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "" {
		t.Errorf("quiet mode should not write progress, got %q", stderr)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if result["translated_text"] != "Olá" || result["detected_language"] != "en" {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestRun_TranslateMultipleTargetsToFiles(t *testing.T) {
	dir, global := setupEnv(t)

	input := filepath.Join(dir, "guide.md")
	os.WriteFile(input, []byte("Good morning"), 0o644)
	output := filepath.Join(dir, "guide.out.md")

	_, stderr, err := runCLI(t, "", append(global, "translate", input, "--to", "pt, es", "-o", output)...)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	for lang, want := range map[string]string{"pt": "[pt] Good morning", "es": "[es] Good morning"} {
		data, err := os.ReadFile(filepath.Join(dir, "guide.out."+lang+".md"))
		if err != nil {
			t.Fatalf("missing %s output: %v", lang, err)
		}
		if string(data) != want {
			t.Errorf("%s output = %q, want %q", lang, data, want)
		}
	}
}

func TestRun_TranslateKeepsCode(t *testing.T) {
	_, global := setupEnv(t)

	in := "Intro\n\n```go\nfmt.Println(\"api\")\n```"
	stdout, _, err := runCLI(t, in, append(global, "translate", "-q")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "```go\nfmt.Println(\"api\")\n```") {
		t.Errorf("code block changed:\n%s", stdout)
	}
}

func TestRun_TranslateValidation(t *testing.T) {
	_, global := setupEnv(t)

	_, _, err := runCLI(t, "Hello", append(global, "translate", "--to", "xx")...)
	if err == nil || !strings.Contains(err.Error(), gotdt.CodeUnsupportedLanguage) {
		t.Errorf("expected %s error, got %v", gotdt.CodeUnsupportedLanguage, err)
	}

	_, _, err = runCLI(t, "   ", append(global, "translate")...)
	if err == nil || !strings.Contains(err.Error(), gotdt.CodeEmptyText) {
		t.Errorf("expected %s error, got %v", gotdt.CodeEmptyText, err)
	}
}

func TestRun_TranslateMissingCredentials(t *testing.T) {
	_, global := setupEnv(t)
	t.Setenv("TRANSLATION_PROVIDER", "azure")

	_, _, err := runCLI(t, "Hello", append(global, "translate")...)
	if err == nil || !strings.Contains(err.Error(), "AZURE_TRANSLATOR_KEY") {
		t.Errorf("expected missing credential error, got %v", err)
	}
}

func TestRun_TranslateMissingFile(t *testing.T) {
	dir, global := setupEnv(t)

	_, _, err := runCLI(t, "", append(global, "translate", filepath.Join(dir, "nope.md"))...)
	if err == nil || !strings.Contains(err.Error(), "reading file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRun_TermsAddAndList(t *testing.T) {
	dir, global := setupEnv(t)

	stdout, _, err := runCLI(t, "", append(global, "terms", "add", "en", "webhook", "pt", "webhook")...)
	if err != nil {
		t.Fatalf("terms add failed: %v", err)
	}
	if !strings.Contains(stdout, "webhook") {
		t.Errorf("unexpected add output: %q", stdout)
	}

	data, err := os.ReadFile(filepath.Join(dir, "terms.json"))
	if err != nil || !strings.Contains(string(data), `"webhook"`) {
		t.Errorf("term not persisted: %v\n%s", err, data)
	}

	stdout, _, err = runCLI(t, "", append(global, "terms", "list", "--lang", "en")...)
	if err != nil {
		t.Fatalf("terms list failed: %v", err)
	}
	if !strings.Contains(stdout, "webhook") || !strings.Contains(stdout, "kubernetes") {
		t.Errorf("list should show defaults and the new term:\n%s", stdout)
	}
}

func TestRun_TermsAddInvalid(t *testing.T) {
	_, global := setupEnv(t)

	_, _, err := runCLI(t, "", append(global, "terms", "add", "en", " ", "pt", "x")...)
	if err == nil || !strings.Contains(err.Error(), gotdt.CodeInvalidTerm) {
		t.Errorf("expected %s error, got %v", gotdt.CodeInvalidTerm, err)
	}

	if _, _, err := runCLI(t, "", append(global, "terms", "add", "en")...); err == nil {
		t.Error("expected an argument count error")
	}
}

func TestRun_CacheExportImport(t *testing.T) {
	dir, global := setupEnv(t)
	t.Setenv("CACHE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "first.db"))

	if _, _, err := runCLI(t, "Hello", append(global, "translate", "-q")...); err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	export := filepath.Join(dir, "cache.json")
	if _, _, err := runCLI(t, "", append(global, "cache", "export", export)...); err != nil {
		t.Fatalf("cache export failed: %v", err)
	}

	data, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var doc struct {
		Entries []struct{ Key, Value string }
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid export: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Value != "Olá" {
		t.Fatalf("unexpected export entries: %+v", doc.Entries)
	}
	if doc.Entries[0].Key != gotdt.ChunkCacheKey("Hello", "en", "pt", "mock") {
		t.Errorf("unexpected cache key %q", doc.Entries[0].Key)
	}

	t.Setenv("SQLITE_PATH", filepath.Join(dir, "second.db"))
	stdout, _, err := runCLI(t, "", append(global, "cache", "import", export)...)
	if err != nil {
		t.Fatalf("cache import failed: %v", err)
	}
	if !strings.Contains(stdout, "Imported 1 entries") {
		t.Errorf("unexpected import output: %q", stdout)
	}
}

func TestRun_CacheNoBackend(t *testing.T) {
	dir, global := setupEnv(t)

	_, _, err := runCLI(t, "", append(global, "cache", "export", filepath.Join(dir, "x.json"))...)
	if err == nil || !strings.Contains(err.Error(), "no cache backend") {
		t.Errorf("expected no-backend error, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path  string
		lang  string
		multi bool
		want  string
	}{
		{"out.md", "pt", false, "out.md"},
		{"out.md", "pt", true, "out.pt.md"},
		{"docs/guide", "es", true, "docs/guide.es"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.path, tt.lang, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.path, tt.lang, tt.multi, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" pt, es,,fr ")
	if strings.Join(got, "|") != "pt|es|fr" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}
