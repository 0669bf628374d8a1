package repository

import (
	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	FindBySessionAndNumber(sessionID string, questionNumber int) (*model.SessionQuestionAssignment, error)
	FindBySessionAndQuestion(sessionID string, questionID uint) (*model.SessionQuestionAssignment, error)
	FindBySession(sessionID string) ([]model.SessionQuestionAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) FindBySessionAndNumber(sessionID string, questionNumber int) (*model.SessionQuestionAssignment, error) {
	var assignment model.SessionQuestionAssignment
	err := r.db.Preload("Question").
		Where("session_id = ? AND question_number = ?", sessionID, questionNumber).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindBySessionAndQuestion(sessionID string, questionID uint) (*model.SessionQuestionAssignment, error) {
	var assignment model.SessionQuestionAssignment
	err := r.db.Preload("Question").
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindBySession(sessionID string) ([]model.SessionQuestionAssignment, error) {
	var assignments []model.SessionQuestionAssignment
	err := r.db.Preload("Question").
		Where("session_id = ?", sessionID).
		Order("question_number ASC").
		Find(&assignments).Error
	return assignments, err
}
