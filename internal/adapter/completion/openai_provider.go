package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"studybuddy-ai/internal/config"
	"studybuddy-ai/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	OpenAIProviderName = "OpenAI"
	DefaultOpenAIModel = "gpt-4o-mini"
	OpenAIKeyURL       = "https://platform.openai.com/api-keys"
)

// langchaingo reports non-200 responses as "API returned unexpected status code: <code>: <message>".
var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// OpenAIProvider implements domain.CompletionProvider on top of the LangchainGo OpenAI client.
type OpenAIProvider struct {
	llm       llms.Model
	modelName string
}

// NewOpenAIProvider creates the long-lived OpenAI client. httpClient may be nil.
func NewOpenAIProvider(apiKey, modelName, baseURL string, httpClient *http.Client) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, &domain.MissingCredentialError{Provider: OpenAIProviderName, EnvVar: config.EnvOpenAIAPIKey}
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}

	return &OpenAIProvider{llm: llm, modelName: modelName}, nil
}

func (p *OpenAIProvider) Name() string {
	return OpenAIProviderName
}

// Model returns the model identifier sent with every request.
func (p *OpenAIProvider) Model() string {
	return p.modelName
}

// Complete implements domain.CompletionProvider
func (p *OpenAIProvider) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	content := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		content = append(content, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &domain.ProviderError{
			Kind:     domain.KindProviderAPIError,
			Provider: OpenAIProviderName,
			Message:  "no completion choices returned",
		}
	}

	return resp.Choices[0].Content, nil
}

func chatMessageType(role domain.Role) llms.ChatMessageType {
	if role == domain.RoleSystem {
		return llms.ChatMessageTypeSystem
	}
	return llms.ChatMessageTypeHuman
}

// classifyOpenAIError maps an HTTP status reported by the client to a *domain.ProviderError.
// Errors without a status (network, context, decoding) are returned unchanged.
func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	match := statusCodePattern.FindStringSubmatch(err.Error())
	if match == nil {
		return err
	}
	status, _ := strconv.Atoi(match[1])

	message := err.Error()
	if idx := strings.Index(message, match[0]+": "); idx != -1 {
		message = message[idx+len(match[0])+2:]
	}

	return &domain.ProviderError{
		Kind:       kindForStatus(status),
		Provider:   OpenAIProviderName,
		StatusCode: status,
		Message:    message,
		Cause:      err,
	}
}

// kindForStatus treats only 401 as an authentication failure; 403 permission
// errors are reported as provider API errors with the provider's message.
func kindForStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return domain.KindAuthenticationFailure
	case http.StatusTooManyRequests:
		return domain.KindRateLimitExceeded
	default:
		return domain.KindProviderAPIError
	}
}

// Static assertion to ensure OpenAIProvider implements CompletionProvider
var _ domain.CompletionProvider = (*OpenAIProvider)(nil)
