package model

import "time"

// UserAnswer holds at most one row per (session, question). Re-answering a
// question while the session is active overwrites the row in place; the
// repository enforces this with an atomic upsert, not a read-then-write.
type UserAnswer struct {
	ID               string    `json:"id" gorm:"primarykey;type:uuid"`
	SessionID        string    `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_session_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_session_question"`
	Question         Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedAnswer   *string   `json:"selected_answer"` // nil means skipped
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	MarkedForReview  bool      `json:"marked_for_review"`
	IsCorrect        bool      `json:"is_correct"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Answered reports whether the row carries an actual selection. Skipped
// questions stay out of the accuracy denominator.
func (a *UserAnswer) Answered() bool {
	return a.SelectedAnswer != nil
}
