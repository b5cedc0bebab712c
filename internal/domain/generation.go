package domain

import (
	"fmt"
	"strings"
)

// Difficulty steers the complexity of the generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"

	// DefaultDifficulty is used when the caller omits a difficulty.
	DefaultDifficulty = DifficultyMedium
)

// Difficulties lists the accepted values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// DifficultyNames returns the accepted values as plain strings.
func DifficultyNames() []string {
	names := make([]string, 0, len(Difficulties))
	for _, d := range Difficulties {
		names = append(names, string(d))
	}
	return names
}

// ParseDifficulty matches s case-insensitively. An empty value yields DefaultDifficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDifficulty, nil
	}
	for _, d := range Difficulties {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", NewInvalidDifficultyError(s)
}

// GenerationRequest is built fresh for every generation trigger.
type GenerationRequest struct {
	RequestID  string
	Topic      string
	Difficulty Difficulty
}

// NewGenerationRequest defaults an empty difficulty to Medium. The topic is kept as-is.
func NewGenerationRequest(requestID, topic string, difficulty Difficulty) *GenerationRequest {
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	return &GenerationRequest{
		RequestID:  requestID,
		Topic:      topic,
		Difficulty: difficulty,
	}
}

// ErrorKind classifies a failed generation.
type ErrorKind string

const (
	KindNone                  ErrorKind = ""
	KindMissingCredential     ErrorKind = "MISSING_CREDENTIAL"
	KindAuthenticationFailure ErrorKind = "AUTHENTICATION_FAILURE"
	KindRateLimitExceeded     ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindProviderAPIError      ErrorKind = "PROVIDER_API_ERROR"
	KindUnclassifiedFailure   ErrorKind = "UNCLASSIFIED_FAILURE"
)

// ErrorMarker prefixes every failure message shown to the user.
const ErrorMarker = "❌"

// GenerationResult is either a success carrying the provider text verbatim or
// a classified failure. It is rendered once and then discarded.
type GenerationResult struct {
	RequestID  string
	Topic      string
	Difficulty Difficulty
	// Provider is the display name of the completion provider, e.g. "OpenAI".
	Provider string
	Text     string
	Kind     ErrorKind
	// Detail holds the provider error text, or the credential variable name
	// for KindMissingCredential.
	Detail string
}

// NewSuccessResult wraps text returned by the provider.
func NewSuccessResult(req *GenerationRequest, provider, text string) *GenerationResult {
	return &GenerationResult{
		RequestID:  req.RequestID,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Provider:   provider,
		Text:       text,
	}
}

// NewFailureResult records a classified failure.
func NewFailureResult(req *GenerationRequest, provider string, kind ErrorKind, detail string) *GenerationResult {
	return &GenerationResult{
		RequestID:  req.RequestID,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Provider:   provider,
		Kind:       kind,
		Detail:     detail,
	}
}

// Succeeded reports whether the provider returned text.
func (r *GenerationResult) Succeeded() bool {
	return r.Kind == KindNone
}

// Display converts the result to the single string shown in the output box.
func (r *GenerationResult) Display() string {
	provider := r.Provider
	if provider == "" {
		provider = "LLM"
	}
	switch r.Kind {
	case KindNone:
		return r.Text
	case KindMissingCredential:
		return fmt.Sprintf("%s Configuration Error: Please set your %s environment variable.", ErrorMarker, r.Detail)
	case KindAuthenticationFailure:
		return fmt.Sprintf("%s Authentication Error: Please check your %s API key.", ErrorMarker, provider)
	case KindRateLimitExceeded:
		return fmt.Sprintf("%s Rate Limit Error: You've exceeded your API quota. Please try again later.", ErrorMarker)
	case KindProviderAPIError:
		return fmt.Sprintf("%s %s API Error: %s", ErrorMarker, provider, r.Detail)
	default:
		return fmt.Sprintf("%s Error: %s", ErrorMarker, r.Detail)
	}
}

// ExamplePair is a canned (topic, difficulty) input offered on the page.
type ExamplePair struct {
	Topic      string
	Difficulty Difficulty
}

// ExamplePairs are shown for quick manual testing.
var ExamplePairs = []ExamplePair{
	{Topic: "Artificial Intelligence", Difficulty: DifficultyMedium},
	{Topic: "AWS", Difficulty: DifficultyEasy},
	{Topic: "Azure", Difficulty: DifficultyHard},
	{Topic: "Renaissance Art", Difficulty: DifficultyMedium},
	{Topic: "Cryptocurrency", Difficulty: DifficultyMedium},
}
