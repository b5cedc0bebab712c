package completion

import (
	"context"
	"net/http"

	"studybuddy-ai/internal/config"
	"studybuddy-ai/internal/domain"
)

// NewProvider builds the provider selected by cfg.LLM.Provider.
// It returns a *domain.MissingCredentialError when the matching API key is empty.
func NewProvider(ctx context.Context, cfg *config.Config) (domain.CompletionProvider, error) {
	var httpClient *http.Client
	if cfg.LLM.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.LLM.Timeout}
	}

	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.LLM.Model, cfg.LLM.BaseURL, httpClient)
	default:
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.LLM.Model, cfg.LLM.BaseURL, httpClient)
	}
}

// ProviderName returns the display name for a configured provider key.
func ProviderName(provider string) string {
	if provider == config.ProviderGemini {
		return GeminiProviderName
	}
	return OpenAIProviderName
}

// KeyURL points users at the page where a credential for provider can be created.
func KeyURL(provider string) string {
	if provider == config.ProviderGemini {
		return GeminiKeyURL
	}
	return OpenAIKeyURL
}

// ModelOf returns the model identifier a provider sends, or "" when it has none.
func ModelOf(p domain.CompletionProvider) string {
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// UnavailableProvider stands in when the real client could not be built at
// startup. Every call fails with the original construction error and no
// network traffic.
type UnavailableProvider struct {
	name string
	err  error
}

func NewUnavailableProvider(name string, err error) *UnavailableProvider {
	return &UnavailableProvider{name: name, err: err}
}

func (p *UnavailableProvider) Name() string {
	return p.name
}

func (p *UnavailableProvider) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	return "", p.err
}

var _ domain.CompletionProvider = (*UnavailableProvider)(nil)
