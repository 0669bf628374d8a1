package service

import (
	"fmt"
	"math/rand"

	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/repository"
)

// difficultyQuota splits n questions into the 30% easy / 50% medium / 20% hard
// buckets used when difficulty is "mixed". Easy and hard round down; whatever
// remains lands in medium, so n=1 yields 0/1/0 and the three buckets always
// sum to n exactly.
func difficultyQuota(n int) (easy, medium, hard int) {
	easy = n * 30 / 100
	hard = n * 20 / 100
	medium = n - easy - hard
	return
}

// questionSelector draws the session's question set from the bank according
// to the configuration's subject/difficulty policy.
type questionSelector struct {
	questions repository.QuestionRepository
}

func newQuestionSelector(questions repository.QuestionRepository) *questionSelector {
	return &questionSelector{questions: questions}
}

// Select returns exactly len(subjects) * questionsPerSubject questions, in
// bank insertion order per subject, shuffled into a uniform random
// permutation when the randomize flag is set.
func (s *questionSelector) Select(cfg model.TestConfiguration) ([]model.Question, error) {
	var picked []model.Question
	for _, subject := range cfg.Subjects {
		subjectQuestions, err := s.selectForSubject(subject, cfg.Difficulty, cfg.QuestionsPerSubject)
		if err != nil {
			return nil, err
		}
		picked = append(picked, subjectQuestions...)
	}

	if cfg.Randomize {
		rand.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
	}
	return picked, nil
}

func (s *questionSelector) selectForSubject(subject, difficulty string, count int) ([]model.Question, error) {
	if difficulty != model.DifficultyMixed {
		questions, err := s.questions.FindBySubjectAndDifficulty(subject, difficulty, count)
		if err != nil {
			return nil, fmt.Errorf("fetching %s/%s questions: %w", subject, difficulty, err)
		}
		if len(questions) < count {
			return nil, fmt.Errorf("question bank has only %d %s/%s questions, need %d", len(questions), subject, difficulty, count)
		}
		return questions, nil
	}

	easy, medium, hard := difficultyQuota(count)
	var picked []model.Question
	for _, bucket := range []struct {
		difficulty string
		count      int
	}{
		{model.DifficultyEasy, easy},
		{model.DifficultyMedium, medium},
		{model.DifficultyHard, hard},
	} {
		if bucket.count == 0 {
			continue
		}
		questions, err := s.questions.FindBySubjectAndDifficulty(subject, bucket.difficulty, bucket.count)
		if err != nil {
			return nil, fmt.Errorf("fetching %s/%s questions: %w", subject, bucket.difficulty, err)
		}
		if len(questions) < bucket.count {
			return nil, fmt.Errorf("question bank has only %d %s/%s questions, need %d", len(questions), subject, bucket.difficulty, bucket.count)
		}
		picked = append(picked, questions...)
	}
	return picked, nil
}
