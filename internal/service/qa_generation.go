package service

import (
	"context"
	"errors"
	"time"

	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/logger"
	"studybuddy-ai/internal/util"

	"go.uber.org/zap"
)

// QAGenerationService turns a (topic, difficulty) pair into ten Q&A pairs.
// Failures are returned as classified results, never as errors.
type QAGenerationService interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult
	ProviderName() string
}

// qaGenerationService implements QAGenerationService
type qaGenerationService struct {
	provider domain.CompletionProvider
}

// NewQAGenerationService creates a new instance of qaGenerationService
func NewQAGenerationService(provider domain.CompletionProvider) QAGenerationService {
	return &qaGenerationService{
		provider: provider,
	}
}

func (s *qaGenerationService) ProviderName() string {
	return s.provider.Name()
}

// Generate implements QAGenerationService. It issues exactly one provider call
// and returns the provider text unmodified.
func (s *qaGenerationService) Generate(ctx context.Context, req *domain.GenerationRequest) *domain.GenerationResult {
	if req.RequestID == "" {
		req.RequestID = util.NewULID()
	}
	if req.Difficulty == "" {
		req.Difficulty = domain.DefaultDifficulty
	}

	l := logger.Get().With(
		zap.String("request_id", req.RequestID),
		zap.String("provider", s.provider.Name()),
	)
	l.Info("Generating Q&A pairs",
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("topic_length", len(req.Topic)),
	)

	start := time.Now()
	text, err := s.provider.Complete(ctx, BuildCompletionRequest(req))
	if err != nil {
		result := classify(req, s.provider.Name(), err)
		l.Warn("Q&A generation failed",
			zap.String("kind", string(result.Kind)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return result
	}

	l.Info("Q&A generation succeeded",
		zap.Int("output_length", len(text)),
		zap.Duration("duration", time.Since(start)),
	)
	return domain.NewSuccessResult(req, s.provider.Name(), text)
}

// classify maps a provider error onto one of the five failure kinds.
func classify(req *domain.GenerationRequest, providerName string, err error) *domain.GenerationResult {
	var credErr *domain.MissingCredentialError
	if errors.As(err, &credErr) {
		return domain.NewFailureResult(req, providerName, domain.KindMissingCredential, credErr.EnvVar)
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.Kind {
		case domain.KindAuthenticationFailure, domain.KindRateLimitExceeded:
			return domain.NewFailureResult(req, providerName, providerErr.Kind, "")
		default:
			return domain.NewFailureResult(req, providerName, domain.KindProviderAPIError, providerErr.Message)
		}
	}

	return domain.NewFailureResult(req, providerName, domain.KindUnclassifiedFailure, err.Error())
}
