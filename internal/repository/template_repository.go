package repository

import (
	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	FindAll() ([]model.TestTemplate, error)
	Count() (int64, error)
	CreateBatch(templates []model.TestTemplate) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) FindAll() ([]model.TestTemplate, error) {
	var templates []model.TestTemplate
	err := r.db.Order("id ASC").Find(&templates).Error
	return templates, err
}

func (r *templateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.TestTemplate{}).Count(&count).Error
	return count, err
}

func (r *templateRepository) CreateBatch(templates []model.TestTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	return r.db.Create(&templates).Error
}
