package repository

import (
	"time"

	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	// CreateWithAssignments persists the session and its full question
	// assignment in one transaction. A session never exists half-assigned.
	CreateWithAssignments(session *model.TestSession, assignments []model.SessionQuestionAssignment) error
	FindByID(id string) (*model.TestSession, error)
	// CompleteIfActive performs the one-way active -> completed transition as a
	// single conditional update. Returns false when the session was already
	// terminal, so two concurrent readers cannot both win the expiry write.
	CompleteIfActive(id string, completedAt time.Time, durationSeconds int) (bool, error)
	// AbandonIfActive is the administrative terminal transition. Same
	// atomicity contract as CompleteIfActive; not exposed over HTTP.
	AbandonIfActive(id string, abandonedAt time.Time, durationSeconds int) (bool, error)
	FindAllByUser(userID string) ([]model.TestSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateWithAssignments(session *model.TestSession, assignments []model.SessionQuestionAssignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		for i := range assignments {
			assignments[i].SessionID = session.ID
		}
		return tx.Create(&assignments).Error
	})
}

func (r *sessionRepository) FindByID(id string) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) CompleteIfActive(id string, completedAt time.Time, durationSeconds int) (bool, error) {
	return r.transitionIfActive(id, model.SessionStatusCompleted, completedAt, durationSeconds)
}

func (r *sessionRepository) AbandonIfActive(id string, abandonedAt time.Time, durationSeconds int) (bool, error) {
	return r.transitionIfActive(id, model.SessionStatusAbandoned, abandonedAt, durationSeconds)
}

func (r *sessionRepository) transitionIfActive(id string, status model.SessionStatus, at time.Time, durationSeconds int) (bool, error) {
	result := r.db.Model(&model.TestSession{}).
		Where("id = ? AND status = ?", id, model.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":           status,
			"completed_at":     at,
			"duration_seconds": durationSeconds,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *sessionRepository) FindAllByUser(userID string) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}
