package repository

import (
	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	FindByID(id uint) (*model.Question, error)
	// FindBySubjectAndDifficulty returns up to limit questions in bank
	// insertion order, which is the non-randomized session order.
	FindBySubjectAndDifficulty(subject, difficulty string, limit int) ([]model.Question, error)
	FindAll(subject, difficulty string) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindBySubjectAndDifficulty(subject, difficulty string, limit int) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Where("subject = ?", subject)
	if difficulty != "" && difficulty != model.DifficultyMixed {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("id ASC").Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindAll(subject, difficulty string) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Order("id ASC")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
