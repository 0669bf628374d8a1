package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubjectPhysics     = "physics"
	SubjectChemistry   = "chemistry"
	SubjectMathematics = "mathematics"
)

const (
	DifficultyMixed  = "mixed"
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Subjects is the fixed subject enumeration, in canonical order.
var Subjects = []string{SubjectPhysics, SubjectChemistry, SubjectMathematics}

func ValidSubject(s string) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyMixed, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a read-only bank entity. CorrectAnswer is never serialized;
// only the admin DTO layer exposes it.
type Question struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	Subject          string         `json:"subject" gorm:"not null;index:idx_questions_subject_difficulty"`
	Difficulty       string         `json:"difficulty" gorm:"not null;index:idx_questions_subject_difficulty"`
	Text             string         `json:"text" gorm:"type:text;not null"`
	Options          []string       `json:"options" gorm:"serializer:json;not null"`
	CorrectAnswer    string         `json:"-" gorm:"not null"`
	Topic            string         `json:"topic"`
	Subtopic         *string        `json:"subtopic,omitempty"`
	Year             *int           `json:"year,omitempty"`
	EstimatedSeconds int            `json:"estimated_seconds"`
	Tags             []string       `json:"tags,omitempty" gorm:"serializer:json"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
