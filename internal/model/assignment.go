package model

import "time"

// SessionQuestionAssignment pins question N of a session to a bank question.
// The full set is written atomically at session start and never changes.
type SessionQuestionAssignment struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	SessionID      string    `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_session_question_number"`
	QuestionNumber int       `json:"question_number" gorm:"not null;uniqueIndex:idx_session_question_number"` // 1-based
	QuestionID     uint      `json:"question_id" gorm:"not null;index"`
	Question       Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt      time.Time `json:"created_at"`
}
