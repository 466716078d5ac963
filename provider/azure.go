package provider

import (
	"context"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotdt"
	"github.com/go-resty/resty/v2"
)

const (
	azureAPIVersion     = "3.0"
	azureDefaultTimeout = 30 * time.Second
)

// AzureConfig holds configuration for the Azure Translator provider.
type AzureConfig struct {
	Key      string        // Subscription key
	Endpoint string        // e.g. https://api.cognitive.microsofttranslator.com
	Region   string        // Resource region; optional for global resources
	Timeout  time.Duration // Per-request timeout (default: 30s)
}

// AzureProvider translates through the Azure Translator Text REST API v3.
type AzureProvider struct {
	client *resty.Client
}

type azureTextItem struct {
	Text string `json:"text"`
}

type azureTranslation struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

type azureResult struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage,omitempty"`
	Translations []azureTranslation `json:"translations"`
}

type azureErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAzureProvider creates an Azure provider. Key and endpoint are required.
func NewAzureProvider(cfg AzureConfig) (*AzureProvider, error) {
	var missing []string
	if cfg.Key == "" {
		missing = append(missing, "AZURE_TRANSLATOR_KEY")
	}
	if cfg.Endpoint == "" {
		missing = append(missing, "AZURE_TRANSLATOR_ENDPOINT")
	}
	if len(missing) > 0 {
		return nil, &gotdt.ConfigurationError{
			Message: "azure translator is not configured",
			Missing: missing,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = azureDefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("User-Agent", gotdt.UserAgent()).
		SetHeader("Ocp-Apim-Subscription-Key", cfg.Key).
		SetQueryParam("api-version", azureAPIVersion)
	if cfg.Region != "" {
		client.SetHeader("Ocp-Apim-Subscription-Region", cfg.Region)
	}

	return &AzureProvider{client: client}, nil
}

// Name implements gotdt.Provider.
func (p *AzureProvider) Name() string {
	return "azure"
}

// Translate translates one text. A response without translations yields the
// input text unchanged.
func (p *AzureProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	var results []azureResult
	var apiErr azureErrorBody

	r := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("to", req.TargetLang).
		SetBody([]azureTextItem{{Text: req.Text}}).
		SetResult(&results).
		SetError(&apiErr)
	if req.SourceLang != "" && req.SourceLang != gotdt.AutoDetect {
		r.SetQueryParam("from", req.SourceLang)
	}

	resp, err := r.Post("/translate")
	if err != nil {
		return "", &gotdt.ProviderError{Message: "azure translate request failed", Cause: err}
	}
	if resp.IsError() {
		return "", &gotdt.ProviderError{
			Message:    "azure translate: " + azureErrorMessage(resp, apiErr),
			StatusCode: resp.StatusCode(),
		}
	}

	if len(results) == 0 || len(results[0].Translations) == 0 {
		return req.Text, nil
	}
	return results[0].Translations[0].Text, nil
}

// Ping lists the translation languages, which needs no characters of quota.
func (p *AzureProvider) Ping(ctx context.Context) error {
	var apiErr azureErrorBody
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("scope", "translation").
		SetError(&apiErr).
		Get("/languages")
	if err != nil {
		return &gotdt.ProviderError{Message: "azure languages request failed", Cause: err}
	}
	if resp.IsError() {
		return &gotdt.ProviderError{
			Message:    "azure languages: " + azureErrorMessage(resp, apiErr),
			StatusCode: resp.StatusCode(),
		}
	}
	return nil
}

func azureErrorMessage(resp *resty.Response, apiErr azureErrorBody) string {
	if apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return resp.Status()
}

// Verify AzureProvider implements Provider and Pinger
var (
	_ Provider = (*AzureProvider)(nil)
	_ Pinger   = (*AzureProvider)(nil)
)
