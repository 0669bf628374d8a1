package model

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// Terminal reports whether no further mutation of the session is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusAbandoned
}

type TestType string

const (
	TestTypeFull        TestType = "full"
	TestTypeSubjectWise TestType = "subject-wise"
	TestTypeCustom      TestType = "custom"
)

// TestConfiguration is fixed at session creation and never mutated afterward.
type TestConfiguration struct {
	Subjects            []string `json:"subjects" gorm:"serializer:json"`
	QuestionsPerSubject int      `json:"questionsPerSubject" gorm:"not null"`
	TimeLimitMinutes    int      `json:"timeLimitMinutes" gorm:"not null"`
	Difficulty          string   `json:"difficulty" gorm:"not null"`
	Randomize           bool     `json:"randomize"`
}

func (c TestConfiguration) TimeLimitSeconds() int {
	return c.TimeLimitMinutes * 60
}

// TestSession is the aggregate root of one timed attempt. CompletedAt and
// DurationSeconds are set if and only if Status is terminal.
type TestSession struct {
	ID              string            `json:"id" gorm:"primarykey;type:uuid"`
	UserID          string            `json:"user_id" gorm:"not null;index"`
	TestType        TestType          `json:"test_type" gorm:"not null"`
	Status          SessionStatus     `json:"status" gorm:"not null;index;default:'active'"`
	StartedAt       time.Time         `json:"started_at" gorm:"not null"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	DurationSeconds *int              `json:"duration_seconds,omitempty"`
	TotalQuestions  int               `json:"total_questions" gorm:"not null"`
	Config          TestConfiguration `json:"configuration" gorm:"embedded;embeddedPrefix:config_"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

// ElapsedSeconds is the whole-second wall-clock distance from StartedAt,
// clamped to never go negative.
func (s *TestSession) ElapsedSeconds(now time.Time) int {
	elapsed := int(now.Sub(s.StartedAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// RemainingSeconds is clamped to [0, time limit]. Zero once terminal.
func (s *TestSession) RemainingSeconds(now time.Time) int {
	if s.Status != SessionStatusActive {
		return 0
	}
	remaining := s.Config.TimeLimitSeconds() - s.ElapsedSeconds(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the time limit has been reached. Valid only for
// active sessions; terminal sessions are past expiry by definition.
func (s *TestSession) Expired(now time.Time) bool {
	return s.ElapsedSeconds(now) >= s.Config.TimeLimitSeconds()
}
