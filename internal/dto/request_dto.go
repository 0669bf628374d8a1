package dto

// ConfigurationDTO mirrors model.TestConfiguration on the wire.
type ConfigurationDTO struct {
	Subjects            []string `json:"subjects" binding:"required,min=1"`
	QuestionsPerSubject int      `json:"questionsPerSubject" binding:"required"`
	TimeLimitMinutes    int      `json:"timeLimitMinutes" binding:"required"`
	Difficulty          string   `json:"difficulty" binding:"required"`
	Randomize           bool     `json:"randomize"`
}

type StartTestRequest struct {
	UserID        string           `json:"userId" binding:"required"`
	TestType      string           `json:"testType" binding:"required,oneof=full subject-wise custom"`
	Configuration ConfigurationDTO `json:"configuration" binding:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID       uint    `json:"questionId" binding:"required"`
	SelectedAnswer   *string `json:"selectedAnswer"` // null means the question was skipped
	TimeSpentSeconds int     `json:"timeSpentSeconds" binding:"min=0"`
	MarkedForReview  bool    `json:"isMarkedForReview"`
}

// --- Admin question bank ---

type CreateQuestionRequest struct {
	Subject          string   `json:"subject" binding:"required,oneof=physics chemistry mathematics"`
	Difficulty       string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Text             string   `json:"text" binding:"required"`
	Options          []string `json:"options" binding:"required,min=2"`
	CorrectAnswer    string   `json:"correctAnswer" binding:"required"`
	Topic            string   `json:"topic"`
	Subtopic         *string  `json:"subtopic"`
	Year             *int     `json:"year"`
	EstimatedSeconds int      `json:"estimatedSeconds"`
	Tags             []string `json:"tags"`
}

type BulkCreateQuestionsRequest struct {
	Questions []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type GenerateQuestionsRequest struct {
	Subject    string `json:"subject" binding:"required,oneof=physics chemistry mathematics"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
	Topic      string `json:"topic"`
}

type ExplainAnswerRequest struct {
	SelectedAnswer string `json:"selectedAnswer" binding:"required"`
}
