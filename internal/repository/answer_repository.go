package repository

import (
	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert inserts the answer or, on (session_id, question_id) conflict,
	// overwrites the previous submission in place. Last writer wins; the
	// conflict clause keeps concurrent resubmissions from losing updates.
	Upsert(answer *model.UserAnswer) error
	FindBySessionAndQuestion(sessionID string, questionID uint) (*model.UserAnswer, error)
	FindBySession(sessionID string) ([]model.UserAnswer, error)
	FindBySessionWithQuestions(sessionID string) ([]model.UserAnswer, error)
	CountAnswered(sessionID string) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.UserAnswer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_answer", "time_spent_seconds", "marked_for_review", "is_correct", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *answerRepository) FindBySessionAndQuestion(sessionID string, questionID uint) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.db.Where("session_id = ? AND question_id = ?", sessionID, questionID).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindBySession(sessionID string) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindBySessionWithQuestions(sessionID string) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.Preload("Question").Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountAnswered(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserAnswer{}).
		Where("session_id = ? AND selected_answer IS NOT NULL", sessionID).
		Count(&count).Error
	return count, err
}
