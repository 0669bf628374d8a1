package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuestionAdminService manages the question bank. Only admin endpoints see
// the correct answers.
type QuestionAdminService interface {
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionAdminDTO, error)
	BulkCreateQuestions(req dto.BulkCreateQuestionsRequest) (int, error)
	ListQuestions(subject, difficulty string) ([]dto.QuestionAdminDTO, error)
	GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest) ([]dto.QuestionAdminDTO, error)
	ExplainAnswer(ctx context.Context, questionID uint, selectedAnswer string) (*dto.ExplanationDTO, error)
}

type questionAdminService struct {
	questions repository.QuestionRepository
	llm       GeminiLLMService
}

func NewQuestionAdminService(questions repository.QuestionRepository, llm GeminiLLMService) QuestionAdminService {
	return &questionAdminService{questions: questions, llm: llm}
}

func questionFromRequest(req dto.CreateQuestionRequest) (model.Question, error) {
	if !containsOption(req.Options, req.CorrectAnswer) {
		return model.Question{}, fmt.Errorf("correct answer must be one of the options")
	}
	return model.Question{
		Subject:          req.Subject,
		Difficulty:       req.Difficulty,
		Text:             req.Text,
		Options:          req.Options,
		CorrectAnswer:    req.CorrectAnswer,
		Topic:            req.Topic,
		Subtopic:         req.Subtopic,
		Year:             req.Year,
		EstimatedSeconds: req.EstimatedSeconds,
		Tags:             req.Tags,
	}, nil
}

func (s *questionAdminService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionAdminDTO, error) {
	question, err := questionFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Create(&question); err != nil {
		log.Error().Err(err).Str("subject", req.Subject).Msg("Failed to create question")
		return nil, fmt.Errorf("creating question: %w", err)
	}
	return toQuestionAdminDTO(&question)
}

func (s *questionAdminService) BulkCreateQuestions(req dto.BulkCreateQuestionsRequest) (int, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, questionReq := range req.Questions {
		question, err := questionFromRequest(questionReq)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, question)
	}
	if err := s.questions.CreateBatch(questions); err != nil {
		log.Error().Err(err).Int("count", len(questions)).Msg("Failed to bulk create questions")
		return 0, fmt.Errorf("creating questions: %w", err)
	}
	return len(questions), nil
}

func (s *questionAdminService) ListQuestions(subject, difficulty string) ([]dto.QuestionAdminDTO, error) {
	questions, err := s.questions.FindAll(subject, difficulty)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	dtos := make([]dto.QuestionAdminDTO, 0, len(questions))
	for i := range questions {
		questionDTO, err := toQuestionAdminDTO(&questions[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *questionDTO)
	}
	return dtos, nil
}

func (s *questionAdminService) GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest) ([]dto.QuestionAdminDTO, error) {
	drafts, err := s.llm.GenerateQuestions(ctx, req.Subject, req.Difficulty, req.Topic, req.Count)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("model produced no usable questions")
	}
	if err := s.questions.CreateBatch(drafts); err != nil {
		log.Error().Err(err).Str("subject", req.Subject).Msg("Failed to persist generated questions")
		return nil, fmt.Errorf("persisting generated questions: %w", err)
	}

	dtos := make([]dto.QuestionAdminDTO, 0, len(drafts))
	for i := range drafts {
		questionDTO, err := toQuestionAdminDTO(&drafts[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *questionDTO)
	}
	log.Info().Str("subject", req.Subject).Int("count", len(dtos)).Msg("Generated questions added to bank")
	return dtos, nil
}

func (s *questionAdminService) ExplainAnswer(ctx context.Context, questionID uint, selectedAnswer string) (*dto.ExplanationDTO, error) {
	question, err := s.questions.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("loading question %d: %w", questionID, err)
	}

	explanation, err := s.llm.ExplainAnswer(ctx, question, selectedAnswer)
	if err != nil {
		return nil, err
	}
	return &dto.ExplanationDTO{
		QuestionID:     questionID,
		SelectedAnswer: selectedAnswer,
		Explanation:    explanation,
	}, nil
}

func toQuestionAdminDTO(question *model.Question) (*dto.QuestionAdminDTO, error) {
	var questionDTO dto.QuestionAdminDTO
	if err := copier.Copy(&questionDTO, question); err != nil {
		return nil, fmt.Errorf("preparing question response: %w", err)
	}
	questionDTO.CorrectAnswer = question.CorrectAnswer
	return &questionDTO, nil
}
