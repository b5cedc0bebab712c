package service

import (
	"fmt"

	"studybuddy-ai/internal/domain"
)

const (
	// QuestionCount is the number of Q&A pairs requested from the provider.
	QuestionCount = 10
	// MaxOutputTokens caps the generated completion.
	MaxOutputTokens = 2000
	// Temperature balances determinism and variety.
	Temperature = 0.7
)

// ExpertEducatorPersona is sent as the system message of every request.
const ExpertEducatorPersona = "You are an expert educator who creates high-quality questions and answers on various topics. " +
	"Your responses are well-structured, accurate, and educational."

const qaPromptTemplate = `Generate exactly %d questions and answers about the topic: "%s"
Requirements:
- Difficulty level: %s
- Questions should be diverse and cover different aspects of the topic
- Answers should be comprehensive but concise (2-4 sentences each)
- Format each Q&A pair clearly with "Q:" and "A:" labels
- Number each pair (1-%d)
Topic: %s
Difficulty: %s
Please generate the questions and answers now:`

// BuildQAPrompt renders the user instruction. The topic is embedded as given.
func BuildQAPrompt(topic string, difficulty domain.Difficulty) string {
	return fmt.Sprintf(qaPromptTemplate, QuestionCount, topic, difficulty, QuestionCount, topic, difficulty)
}

// BuildCompletionRequest assembles the two-message exchange sent to the provider.
func BuildCompletionRequest(req *domain.GenerationRequest) domain.CompletionRequest {
	return domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: ExpertEducatorPersona},
			{Role: domain.RoleUser, Content: BuildQAPrompt(req.Topic, req.Difficulty)},
		},
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
	}
}
