package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/gotdt"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider translates with an OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &gotdt.ConfigurationError{
			Message: "openai provider is not configured",
			Missing: []string{"OPENAI_API_KEY"},
		}
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}, nil
}

// Name includes the model so cached translations of different models never mix.
func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model
}

// Translate translates one chunk of a technical document.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &gotdt.ProviderError{
			Message:    "OpenAI API call failed",
			Cause:      err,
			StatusCode: statusCode(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &gotdt.ProviderError{Message: "no response from OpenAI"}
	}

	return stripFence(resp.Choices[0].Message.Content), nil
}

// Ping lists models to check the API key and endpoint.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return &gotdt.ProviderError{
			Message:    "OpenAI models request failed",
			Cause:      err,
			StatusCode: statusCode(err),
		}
	}
	return nil
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	source := "the source language"
	if req.SourceLang != "" && req.SourceLang != gotdt.AutoDetect {
		source = gotdt.LanguageName(req.SourceLang)
	}
	target := gotdt.LanguageName(req.TargetLang)

	return fmt.Sprintf(`# Role
You are an expert technical translator. You translate software documentation, articles and tutorials from %s to %s.

# Task
Translate the user's message into %s and reply with the translation only.

# Rules
- **Placeholders**: Tokens such as __CODE_BLOCK_0__, __INLINE_CODE_3__ and __HTML_BLOCK_1__ stand for code. Copy every one of them exactly, in the same position, and never translate, split or renumber them.
- **Technical Terms**: Keep product names, commands, identifiers, file names, URLs and acronyms as written.
- **Structure**: Preserve paragraphs, blank lines, Markdown headings, lists and emphasis.
- **Register**: Use the precise, neutral register of professional documentation in %s.
- **Output**: No explanations, no notes, no surrounding quotes, no Markdown code fences around the answer.`,
		source, target, target, target)
}

// stripFence removes a code fence the model wrapped its whole answer in.
func stripFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if i := strings.Index(inner, "\n"); i >= 0 && !strings.Contains(inner[:i], " ") {
		inner = inner[i+1:]
	}
	return strings.TrimSpace(inner)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Verify OpenAIProvider implements Provider and Pinger
var (
	_ Provider = (*OpenAIProvider)(nil)
	_ Pinger   = (*OpenAIProvider)(nil)
)
