// Package config loads gotdt settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of precedence
// (later sources win).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/gotdt"
)

// Provider names.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Server modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// DefaultFileName is the YAML file looked up when no --config path is given.
const DefaultFileName = "gotdt.yaml"

// Config is the complete runtime configuration.
type Config struct {
	Provider    string            `yaml:"provider"`
	Azure       AzureConfig       `yaml:"azure"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Translation TranslationConfig `yaml:"translation"`
	TermsFile   string            `yaml:"terms_file"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
	LogLevel    string            `yaml:"log_level"`
}

// AzureConfig holds Azure Translator credentials.
type AzureConfig struct {
	Key      string `yaml:"key"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
}

// OpenAIConfig holds OpenAI settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// TranslationConfig controls the pipeline.
type TranslationConfig struct {
	SourceLanguage string `yaml:"source_language"`
	TargetLanguage string `yaml:"target_language"`
	MaxTextLength  int    `yaml:"max_text_length"`
	MaxChunkSize   int    `yaml:"max_chunk_size"`
	Workers        int    `yaml:"workers"`
	RateLimitRPM   int    `yaml:"rate_limit_rpm"`
}

// CacheConfig selects the chunk cache backend.
type CacheConfig struct {
	Backend    string `yaml:"backend"`
	TTL        int    `yaml:"ttl"`
	RedisURL   string `yaml:"redis_url"`
	SQLitePath string `yaml:"sqlite_path"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	Mode           string        `yaml:"mode"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderAzure,
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Translation: TranslationConfig{
			SourceLanguage: "en",
			TargetLanguage: "pt",
			MaxTextLength:  gotdt.DefaultMaxTextLength,
			MaxChunkSize:   gotdt.DefaultMaxChunkSize,
			Workers:        1,
		},
		TermsFile: "data/technical_terms.json",
		Cache: CacheConfig{
			Backend:    "none",
			TTL:        3600,
			SQLitePath: "data/cache.db",
		},
		Server: ServerConfig{
			Addr:           ":5000",
			Mode:           ModeDevelopment,
			RequestTimeout: 60 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// DefaultFileName is used if it exists. envFiles are loaded into the
// environment without overriding variables that are already set; with no
// envFiles, a .env in the working directory is loaded if present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from the command line
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	var errs []error
	num := func(name string, dst *int) {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", name, v))
			return
		}
		*dst = n
	}

	str("TRANSLATION_PROVIDER", &c.Provider)
	str("AZURE_TRANSLATOR_KEY", &c.Azure.Key)
	str("AZURE_TRANSLATOR_ENDPOINT", &c.Azure.Endpoint)
	str("AZURE_TRANSLATOR_REGION", &c.Azure.Region)
	str("OPENAI_API_KEY", &c.OpenAI.APIKey)
	str("OPENAI_MODEL", &c.OpenAI.Model)
	str("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	str("DEFAULT_SOURCE_LANGUAGE", &c.Translation.SourceLanguage)
	str("DEFAULT_TARGET_LANGUAGE", &c.Translation.TargetLanguage)
	num("MAX_TEXT_LENGTH", &c.Translation.MaxTextLength)
	num("MAX_CHUNK_SIZE", &c.Translation.MaxChunkSize)
	num("TRANSLATION_WORKERS", &c.Translation.Workers)
	num("RATE_LIMIT_RPM", &c.Translation.RateLimitRPM)
	str("TECHNICAL_TERMS_FILE", &c.TermsFile)
	str("CACHE_BACKEND", &c.Cache.Backend)
	num("CACHE_TTL", &c.Cache.TTL)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("SQLITE_PATH", &c.Cache.SQLitePath)
	str("APP_ENV", &c.Server.Mode)
	str("LOG_LEVEL", &c.LogLevel)

	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		port = strings.TrimSpace(port)
		if _, err := strconv.Atoi(port); err != nil {
			errs = append(errs, fmt.Errorf("PORT: %q is not a port number", port))
		} else {
			c.Server.Addr = ":" + port
		}
	}

	if v, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
		} else {
			c.Server.RequestTimeout = d
		}
	}

	c.Provider = strings.ToLower(c.Provider)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	c.Server.Mode = strings.ToLower(c.Server.Mode)

	if len(errs) > 0 {
		return &gotdt.ConfigurationError{Message: "invalid environment", Cause: errors.Join(errs...)}
	}
	return nil
}

// Validate checks that the selected provider and cache have everything they
// need. Missing settings are reported together by environment variable name.
func (c *Config) Validate() error {
	var missing []string
	switch c.Provider {
	case ProviderAzure:
		if c.Azure.Key == "" {
			missing = append(missing, "AZURE_TRANSLATOR_KEY")
		}
		if c.Azure.Endpoint == "" {
			missing = append(missing, "AZURE_TRANSLATOR_ENDPOINT")
		}
		if c.Azure.Region == "" {
			missing = append(missing, "AZURE_TRANSLATOR_REGION")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case ProviderMock:
	default:
		return &gotdt.ConfigurationError{Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	switch c.Cache.Backend {
	case "", "none", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	case "sqlite":
		if c.Cache.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		return &gotdt.ConfigurationError{Message: fmt.Sprintf("unknown cache backend %q", c.Cache.Backend)}
	}

	if len(missing) > 0 {
		return &gotdt.ConfigurationError{Message: "required settings are missing", Missing: missing}
	}

	var problems []string
	if !gotdt.IsSupported(c.Translation.SourceLanguage) && c.Translation.SourceLanguage != gotdt.AutoDetect {
		problems = append(problems, fmt.Sprintf("unsupported default source language %q", c.Translation.SourceLanguage))
	}
	if !gotdt.IsSupported(c.Translation.TargetLanguage) {
		problems = append(problems, fmt.Sprintf("unsupported default target language %q", c.Translation.TargetLanguage))
	}
	if c.Translation.MaxChunkSize <= 0 {
		problems = append(problems, "max_chunk_size must be positive")
	}
	if c.Translation.MaxTextLength < 0 {
		problems = append(problems, "max_text_length must not be negative")
	}
	if c.Translation.Workers < 1 {
		problems = append(problems, "workers must be at least 1")
	}
	if c.Server.Mode != ModeDevelopment && c.Server.Mode != ModeProduction {
		problems = append(problems, fmt.Sprintf("unknown mode %q", c.Server.Mode))
	}
	if c.Server.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &gotdt.ConfigurationError{Message: strings.Join(problems, "; ")}
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Mode == ModeProduction
}
