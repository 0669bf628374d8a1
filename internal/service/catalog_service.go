package service

import (
	"fmt"

	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/repository"
	"github.com/rs/zerolog/log"
)

// CatalogService lists the predefined test offerings users can start from.
type CatalogService interface {
	ListAvailableTests() ([]dto.TestTemplateDTO, error)
	// SeedDefaults inserts the stock templates on first boot. No-op when the
	// table already has rows.
	SeedDefaults() error
}

type catalogService struct {
	templates repository.TemplateRepository
}

func NewCatalogService(templates repository.TemplateRepository) CatalogService {
	return &catalogService{templates: templates}
}

func (s *catalogService) ListAvailableTests() ([]dto.TestTemplateDTO, error) {
	templates, err := s.templates.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list test templates")
		return nil, fmt.Errorf("fetching test templates: %w", err)
	}

	dtos := make([]dto.TestTemplateDTO, 0, len(templates))
	for _, template := range templates {
		dtos = append(dtos, dto.TestTemplateDTO{
			ID:          template.ID,
			Name:        template.Name,
			TestType:    string(template.TestType),
			Description: template.Description,
			Configuration: dto.ConfigurationDTO{
				Subjects:            template.Config.Subjects,
				QuestionsPerSubject: template.Config.QuestionsPerSubject,
				TimeLimitMinutes:    template.Config.TimeLimitMinutes,
				Difficulty:          template.Config.Difficulty,
				Randomize:           template.Config.Randomize,
			},
		})
	}
	return dtos, nil
}

func (s *catalogService) SeedDefaults() error {
	count, err := s.templates.Count()
	if err != nil {
		return fmt.Errorf("counting test templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []model.TestTemplate{
		{
			Name:        "Full Mock Test",
			TestType:    model.TestTypeFull,
			Description: "All three subjects, exam-length timing.",
			Config: model.TestConfiguration{
				Subjects:            model.Subjects,
				QuestionsPerSubject: 40,
				TimeLimitMinutes:    180,
				Difficulty:          model.DifficultyMixed,
				Randomize:           true,
			},
		},
		{
			Name:        "Physics Sprint",
			TestType:    model.TestTypeSubjectWise,
			Description: "Single-subject physics drill.",
			Config: model.TestConfiguration{
				Subjects:            []string{model.SubjectPhysics},
				QuestionsPerSubject: 30,
				TimeLimitMinutes:    60,
				Difficulty:          model.DifficultyMixed,
				Randomize:           true,
			},
		},
		{
			Name:        "Chemistry Sprint",
			TestType:    model.TestTypeSubjectWise,
			Description: "Single-subject chemistry drill.",
			Config: model.TestConfiguration{
				Subjects:            []string{model.SubjectChemistry},
				QuestionsPerSubject: 30,
				TimeLimitMinutes:    60,
				Difficulty:          model.DifficultyMixed,
				Randomize:           true,
			},
		},
		{
			Name:        "Mathematics Sprint",
			TestType:    model.TestTypeSubjectWise,
			Description: "Single-subject mathematics drill.",
			Config: model.TestConfiguration{
				Subjects:            []string{model.SubjectMathematics},
				QuestionsPerSubject: 30,
				TimeLimitMinutes:    60,
				Difficulty:          model.DifficultyMixed,
				Randomize:           true,
			},
		},
	}

	if err := s.templates.CreateBatch(defaults); err != nil {
		return fmt.Errorf("seeding test templates: %w", err)
	}
	log.Info().Int("count", len(defaults)).Msg("Seeded default test templates")
	return nil
}
