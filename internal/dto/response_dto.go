package dto

import "time"

// SessionDTO is the wire shape of a test session.
type SessionDTO struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	TestType        string           `json:"testType"`
	Status          string           `json:"status"`
	StartedAt       time.Time        `json:"startedAt"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
	DurationSeconds *int             `json:"durationSeconds,omitempty"`
	TotalQuestions  int              `json:"totalQuestions"`
	Configuration   ConfigurationDTO `json:"configuration"`
}

type ProgressDTO struct {
	AnsweredQuestions int `json:"answeredQuestions"`
	TotalQuestions    int `json:"totalQuestions"`
}

// SessionStateDTO is the GET /tests/session/:id response.
type SessionStateDTO struct {
	Session              SessionDTO  `json:"session"`
	Progress             ProgressDTO `json:"progress"`
	RemainingTimeSeconds int         `json:"remainingTimeSeconds"`
}

// QuestionViewDTO is a question as delivered mid-session: no correct answer.
type QuestionViewDTO struct {
	ID               uint     `json:"id"`
	Subject          string   `json:"subject"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	Topic            string   `json:"topic,omitempty"`
	Subtopic         *string  `json:"subtopic,omitempty"`
	Year             *int     `json:"year,omitempty"`
	EstimatedSeconds int      `json:"estimatedSeconds,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

type ExistingAnswerDTO struct {
	SelectedAnswer  *string `json:"selectedAnswer"`
	MarkedForReview bool    `json:"isMarkedForReview"`
}

// QuestionDeliveryDTO is the GET /tests/session/:id/question/:num response.
type QuestionDeliveryDTO struct {
	Question             QuestionViewDTO    `json:"question"`
	QuestionNumber       int                `json:"questionNumber"`
	TotalQuestions       int                `json:"totalQuestions"`
	ExistingAnswer       *ExistingAnswerDTO `json:"existingAnswer"`
	RemainingTimeSeconds int                `json:"remainingTimeSeconds"`
}

type SubmitAnswerResponse struct {
	Success  bool   `json:"success"`
	AnswerID string `json:"answerId"`
}

type SubjectResultDTO struct {
	Subject           string  `json:"subject"`
	TotalQuestions    int     `json:"totalQuestions"`
	AnsweredQuestions int     `json:"answeredQuestions"`
	CorrectAnswers    int     `json:"correctAnswers"`
	Accuracy          float64 `json:"accuracy"`
}

// TestResultsDTO is the SubmitSession / GetResults response.
type TestResultsDTO struct {
	SessionID         string             `json:"sessionId"`
	UserID            string             `json:"userId"`
	TestType          string             `json:"testType"`
	Status            string             `json:"status"`
	TotalQuestions    int                `json:"totalQuestions"`
	AnsweredQuestions int                `json:"answeredQuestions"`
	CorrectAnswers    int                `json:"correctAnswers"`
	Accuracy          float64            `json:"accuracy"`
	DurationSeconds   int                `json:"durationSeconds"`
	CompletedAt       time.Time          `json:"completedAt"`
	Subjects          []SubjectResultDTO `json:"subjects,omitempty"`
}

// SessionSummaryDTO is one row of GET /tests/history.
type SessionSummaryDTO struct {
	ID              string     `json:"id"`
	TestType        string     `json:"testType"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
	TotalQuestions  int        `json:"totalQuestions"`
	Subjects        []string   `json:"subjects"`
}

// TestTemplateDTO is one row of GET /tests/available.
type TestTemplateDTO struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	TestType      string           `json:"testType"`
	Description   string           `json:"description,omitempty"`
	Configuration ConfigurationDTO `json:"configuration"`
}

// QuestionAdminDTO exposes the correct answer; admin endpoints only.
type QuestionAdminDTO struct {
	ID               uint     `json:"id"`
	Subject          string   `json:"subject"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer"`
	Topic            string   `json:"topic,omitempty"`
	Subtopic         *string  `json:"subtopic,omitempty"`
	Year             *int     `json:"year,omitempty"`
	EstimatedSeconds int      `json:"estimatedSeconds,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

type ExplanationDTO struct {
	QuestionID     uint   `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
	Explanation    string `json:"explanation"`
}

// ResultVerificationDTO reports cross-service agreement on a session's score.
type ResultVerificationDTO struct {
	SessionID  string           `json:"sessionId"`
	Consistent bool             `json:"consistent"`
	Reference  *TestResultsDTO  `json:"reference,omitempty"`
	Conflicts  []TestResultsDTO `json:"conflicts,omitempty"`
}
