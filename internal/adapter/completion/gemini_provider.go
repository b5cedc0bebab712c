package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"studybuddy-ai/internal/config"
	"studybuddy-ai/internal/domain"

	"google.golang.org/genai"
)

const (
	GeminiProviderName = "Gemini"
	DefaultGeminiModel = "gemini-2.0-flash"
	GeminiKeyURL       = "https://aistudio.google.com/app/apikey"
)

// GeminiProvider implements domain.CompletionProvider with the Google Gen AI SDK.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider creates the long-lived Gemini client. httpClient may be nil.
func NewGeminiProvider(ctx context.Context, apiKey, modelName, baseURL string, httpClient *http.Client) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, &domain.MissingCredentialError{Provider: GeminiProviderName, EnvVar: config.EnvGeminiAPIKey}
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (p *GeminiProvider) Name() string {
	return GeminiProviderName
}

// Model returns the model identifier sent with every request.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Complete implements domain.CompletionProvider. System messages become the
// system instruction; all other messages are sent as user content.
func (p *GeminiProvider) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	temperature := float32(req.Temperature)
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		content := &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: m.Content}},
		}
		if m.Role == domain.RoleSystem {
			genConfig.SystemInstruction = content
			continue
		}
		contents = append(contents, content)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, genConfig)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &domain.ProviderError{
			Kind:     domain.KindProviderAPIError,
			Provider: GeminiProviderName,
			Message:  "no candidates returned",
		}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// classifyGeminiError maps genai.APIError to a *domain.ProviderError.
// The Gemini API answers an invalid key with 400 INVALID_ARGUMENT, so the
// message is checked as well as the status code.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return err
		}
		apiErr = *apiErrPtr
	}

	kind := kindForStatus(apiErr.Code)
	if strings.Contains(apiErr.Message, "API key not valid") || strings.Contains(apiErr.Message, "API_KEY_INVALID") {
		kind = domain.KindAuthenticationFailure
	}
	if apiErr.Status == "RESOURCE_EXHAUSTED" {
		kind = domain.KindRateLimitExceeded
	}

	return &domain.ProviderError{
		Kind:       kind,
		Provider:   GeminiProviderName,
		StatusCode: apiErr.Code,
		Message:    apiErr.Message,
		Cause:      err,
	}
}

// Static assertion to ensure GeminiProvider implements CompletionProvider
var _ domain.CompletionProvider = (*GeminiProvider)(nil)
