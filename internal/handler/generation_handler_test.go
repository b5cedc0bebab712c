package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"studybuddy-ai/internal/adapter/completion"
	"studybuddy-ai/internal/config"
	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/dto"
	"studybuddy-ai/internal/logger"
	"studybuddy-ai/internal/middleware"
	"studybuddy-ai/internal/service"
	"studybuddy-ai/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		log.Fatalf("Failed to initialize logger for handler tests: %v", err)
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

// mockQAGenerationService is a func-field mock of service.QAGenerationService
type mockQAGenerationService struct {
	GenerateFunc func(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult
	calls        atomic.Int32
	lastRequest  atomic.Pointer[domain.GenerationRequest]
}

func (m *mockQAGenerationService) Generate(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult {
	m.calls.Add(1)
	m.lastRequest.Store(req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return domain.NewSuccessResult(req, "OpenAI", "1. Q: What?\n   A: That.")
}

func (m *mockQAGenerationService) ProviderName() string {
	return "OpenAI"
}

func newTestApp(t *testing.T, svc service.QAGenerationService, credentialConfigured bool) *fiber.App {
	t.Helper()
	page, err := web.NewPage()
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestID())
	h := NewGenerationHandler(svc, nil, page, config.EnvOpenAIAPIKey, credentialConfigured)
	RegisterRoutes(app, h, middleware.NewValidationMiddleware(nil))
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func postForm(t *testing.T, app *fiber.App, values url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestIndex_RendersFormWithoutGenerating(t *testing.T) {
	svc := &mockQAGenerationService{}
	app := newTestApp(t, svc, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?topic=AWS&difficulty=easy", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	html := readBody(t, resp)
	assert.Contains(t, html, `value="AWS"`)
	assert.Contains(t, html, `<option value="Easy" selected="selected">`)
	assert.Contains(t, html, "Generate Q&amp;A Pairs")
	assert.Equal(t, int32(0), svc.calls.Load())
}

func TestIndex_UnknownDifficultyFallsBackToDefault(t *testing.T) {
	app := newTestApp(t, &mockQAGenerationService{}, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?difficulty=Expert", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `<option value="Medium" selected="selected">`)
}

func TestSubmit_GeneratesOnceAndRendersOutput(t *testing.T) {
	svc := &mockQAGenerationService{
		GenerateFunc: func(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult {
			return domain.NewSuccessResult(req, "OpenAI", "1. Q: What is a blockchain?\n   A: A ledger.")
		},
	}
	app := newTestApp(t, svc, true)

	resp := postForm(t, app, url.Values{"topic": {"Cryptocurrency"}, "difficulty": {"Medium"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	html := readBody(t, resp)
	assert.Contains(t, html, "What is a blockchain?")
	assert.Contains(t, html, `value="Cryptocurrency"`)
	assert.Equal(t, int32(1), svc.calls.Load())
	last := svc.lastRequest.Load()
	require.NotNil(t, last)
	assert.Equal(t, domain.DifficultyMedium, last.Difficulty)
	assert.NotEmpty(t, last.RequestID)
	assert.Equal(t, last.RequestID, resp.Header.Get(middleware.RequestIDHeader))
}

func TestSubmit_FailureRendersMessage(t *testing.T) {
	svc := &mockQAGenerationService{
		GenerateFunc: func(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult {
			return domain.NewFailureResult(req, "OpenAI", domain.KindRateLimitExceeded, "")
		},
	}
	app := newTestApp(t, svc, true)

	resp := postForm(t, app, url.Values{"topic": {"AWS"}, "difficulty": {"Easy"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Rate Limit Error")
}

func TestSubmit_InvalidDifficulty(t *testing.T) {
	svc := &mockQAGenerationService{}
	app := newTestApp(t, svc, true)

	resp := postForm(t, app, url.Values{"topic": {"AWS"}, "difficulty": {"Expert"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "must be one of Easy, Medium, Hard")
	assert.Equal(t, int32(0), svc.calls.Load())
}

func TestGenerate_JSON(t *testing.T) {
	tests := []struct {
		name        string
		result      func(req *domain.GenerationRequest) *domain.GenerationResult
		wantSuccess bool
		wantKind    string
		wantOutput  string
	}{
		{
			name: "success",
			result: func(req *domain.GenerationRequest) *domain.GenerationResult {
				return domain.NewSuccessResult(req, "OpenAI", "Q&A text")
			},
			wantSuccess: true,
			wantOutput:  "Q&A text",
		},
		{
			name: "authentication failure is still 200",
			result: func(req *domain.GenerationRequest) *domain.GenerationResult {
				return domain.NewFailureResult(req, "OpenAI", domain.KindAuthenticationFailure, "")
			},
			wantKind:   string(domain.KindAuthenticationFailure),
			wantOutput: "❌ Authentication Error: Please check your OpenAI API key.",
		},
		{
			name: "missing credential",
			result: func(req *domain.GenerationRequest) *domain.GenerationResult {
				return domain.NewFailureResult(req, "OpenAI", domain.KindMissingCredential, config.EnvOpenAIAPIKey)
			},
			wantKind:   string(domain.KindMissingCredential),
			wantOutput: "❌ Configuration Error: Please set your OPENAI_API_KEY environment variable.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockQAGenerationService{
				GenerateFunc: func(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult {
					return tt.result(req)
				},
			}
			app := newTestApp(t, svc, true)

			resp := postJSON(t, app, "/api/generate", `{"topic":"Azure","difficulty":"hard"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body dto.GenerateResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantSuccess, body.Success)
			assert.Equal(t, tt.wantKind, body.ErrorKind)
			assert.Equal(t, tt.wantOutput, body.Output)
			assert.Equal(t, "Azure", body.Topic)
			assert.Equal(t, "Hard", body.Difficulty)
			assert.NotEmpty(t, body.RequestID)
			assert.Equal(t, int32(1), svc.calls.Load())
		})
	}
}

func TestGenerate_ValidationError(t *testing.T) {
	svc := &mockQAGenerationService{}
	app := newTestApp(t, svc, true)

	resp := postJSON(t, app, "/api/generate", `{"topic":"AWS","difficulty":"Expert"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "difficulty", body.Errors[0].Field)
	assert.Equal(t, int32(0), svc.calls.Load())
}

func TestGenerate_MalformedBody(t *testing.T) {
	app := newTestApp(t, &mockQAGenerationService{}, true)

	resp := postJSON(t, app, "/api/generate", `{"topic":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetExamples(t *testing.T) {
	app := newTestApp(t, &mockQAGenerationService{}, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/examples", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ExamplesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Examples, 5)
	assert.Equal(t, dto.ExampleResponse{Topic: "Cryptocurrency", Difficulty: "Medium"}, body.Examples[4])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &mockQAGenerationService{}, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Provider: "OpenAI", CredentialConfigured: false}, body)
}

// End to end through the real service and OpenAI provider against a fake endpoint.
func TestGenerate_EndToEndWithFakeOpenAI(t *testing.T) {
	const qaText = "1. Q: What is a blockchain?\n   A: A distributed ledger.\n\n2. Q: What is Bitcoin?\n   A: The first cryptocurrency."
	var calls atomic.Int32
	var gotBody atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		gotBody.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": qaText},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 50, "completion_tokens": 40, "total_tokens": 90},
		})
	}))
	defer server.Close()

	provider, err := completion.NewOpenAIProvider("sk-test", "", server.URL, server.Client())
	require.NoError(t, err)
	app := newTestApp(t, service.NewQAGenerationService(provider), true)

	resp := postJSON(t, app, "/api/generate", `{"topic":"Cryptocurrency","difficulty":"Medium"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, qaText, body.Output)
	assert.Equal(t, int32(1), calls.Load())
	sent, _ := gotBody.Load().(string)
	assert.Contains(t, sent, "Cryptocurrency")
	assert.Contains(t, sent, "exactly 10 questions and answers")
}

func TestGenerate_UnavailableProviderRendersConfigurationError(t *testing.T) {
	provider := completion.NewUnavailableProvider(completion.OpenAIProviderName,
		&domain.MissingCredentialError{Provider: completion.OpenAIProviderName, EnvVar: config.EnvOpenAIAPIKey})
	app := newTestApp(t, service.NewQAGenerationService(provider), false)

	resp := postJSON(t, app, "/api/generate", `{"topic":"AWS"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, string(domain.KindMissingCredential), body.ErrorKind)
	assert.Contains(t, body.Output, "OPENAI_API_KEY")
	assert.Equal(t, "Medium", body.Difficulty)
}
