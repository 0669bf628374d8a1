package model

import (
	"time"

	"gorm.io/gorm"
)

// TestTemplate is a predefined test offering shown on the catalog page.
// Starting a session copies its configuration; the template itself is never
// referenced by the session afterward.
type TestTemplate struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	Name        string            `json:"name" gorm:"not null;uniqueIndex"`
	TestType    TestType          `json:"test_type" gorm:"not null"`
	Description string            `json:"description,omitempty"`
	Config      TestConfiguration `json:"configuration" gorm:"embedded;embeddedPrefix:config_"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}
