package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/prepforge/mocktest/config"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/resilience"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiLLMService is the AI content sibling: it drafts multiple-choice
// questions for the bank and explains answers. Every remote call goes
// through the injected circuit breaker.
type GeminiLLMService interface {
	GenerateQuestions(ctx context.Context, subject, difficulty, topic string, count int) ([]model.Question, error)
	ExplainAnswer(ctx context.Context, question *model.Question, selectedAnswer string) (string, error)
}

type geminiLLMService struct {
	client  *genai.GenerativeModel
	breaker *resilience.Breaker
}

func NewGeminiLLMService(cfg *config.Config, breaker *resilience.Breaker) (GeminiLLMService, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{breaker: breaker}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{
		client:  client.GenerativeModel(cfg.Gemini.Model),
		breaker: breaker,
	}, nil
}

// generatedQuestion is the JSON shape the generation prompt asks for.
type generatedQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Topic         string   `json:"topic"`
}

func (s *geminiLLMService) GenerateQuestions(ctx context.Context, subject, difficulty, topic string, count int) ([]model.Question, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client is not configured")
	}

	prompt := fmt.Sprintf(
		`Generate %d multiple-choice %s questions of %s difficulty for a competitive exam mock test.`,
		count, subject, difficulty)
	if topic != "" {
		prompt += fmt.Sprintf(" Focus on the topic %q.", topic)
	}
	prompt += ` Respond with a JSON array only, no prose. Each element:
{"text": "...", "options": ["...", "...", "...", "..."], "correct_answer": "<one of options verbatim>", "topic": "..."}`

	var text string
	err := s.breaker.Do(func() error {
		resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		text = extractText(resp)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Gemini question generation failed")
		return nil, err
	}

	var drafts []generatedQuestion
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &drafts); err != nil {
		return nil, fmt.Errorf("parsing generated questions: %w", err)
	}

	questions := make([]model.Question, 0, len(drafts))
	for _, draft := range drafts {
		if draft.Text == "" || len(draft.Options) < 2 || !containsOption(draft.Options, draft.CorrectAnswer) {
			log.Warn().Str("subject", subject).Msg("Discarding malformed generated question")
			continue
		}
		questions = append(questions, model.Question{
			Subject:       subject,
			Difficulty:    difficulty,
			Text:          draft.Text,
			Options:       draft.Options,
			CorrectAnswer: draft.CorrectAnswer,
			Topic:         draft.Topic,
		})
	}
	return questions, nil
}

func (s *geminiLLMService) ExplainAnswer(ctx context.Context, question *model.Question, selectedAnswer string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client is not configured")
	}

	prompt := fmt.Sprintf(
		`A student answered a %s question. Question: %q Options: %s. Correct answer: %q. The student selected: %q. Explain in a short paragraph why the correct answer is right%s.`,
		question.Subject,
		question.Text,
		strings.Join(question.Options, " | "),
		question.CorrectAnswer,
		selectedAnswer,
		explainSuffix(question.CorrectAnswer, selectedAnswer),
	)

	var text string
	err := s.breaker.Do(func() error {
		resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		text = extractText(resp)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini explanation failed")
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func explainSuffix(correct, selected string) string {
	if correct == selected {
		return ""
	}
	return " and where the selected option goes wrong"
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}

// stripCodeFences removes a ```json … ``` wrapper the model sometimes adds.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func containsOption(options []string, answer string) bool {
	for _, option := range options {
		if option == answer {
			return true
		}
	}
	return false
}
