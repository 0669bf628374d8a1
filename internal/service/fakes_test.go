package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/prepforge/mocktest/internal/model"
	"gorm.io/gorm"
)

// memDB backs the in-memory repository fakes the engine tests run against.
// The four repo types below are thin views over this shared store.
type memDB struct {
	mu          sync.Mutex
	nextID      uint
	questions   map[uint]model.Question
	sessions    map[string]model.TestSession
	assignments []model.SessionQuestionAssignment
	answers     map[string]model.UserAnswer
	failUpsert  bool
}

func newMemDB() *memDB {
	return &memDB{
		questions: make(map[uint]model.Question),
		sessions:  make(map[string]model.TestSession),
		answers:   make(map[string]model.UserAnswer),
	}
}

func answerKey(sessionID string, questionID uint) string {
	return fmt.Sprintf("%s|%d", sessionID, questionID)
}

// seedQuestions adds count questions of one subject/difficulty. Options are
// always A-D with "A" correct.
func (db *memDB) seedQuestions(subject, difficulty string, count int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := 0; i < count; i++ {
		db.nextID++
		db.questions[db.nextID] = model.Question{
			ID:            db.nextID,
			Subject:       subject,
			Difficulty:    difficulty,
			Text:          fmt.Sprintf("%s %s question %d", subject, difficulty, i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Topic:         "general",
		}
	}
}

// --- QuestionRepository fake ---

type fakeQuestionRepo struct{ db *memDB }

func (f *fakeQuestionRepo) Create(question *model.Question) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.nextID++
	question.ID = f.db.nextID
	f.db.questions[question.ID] = *question
	return nil
}

func (f *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	for i := range questions {
		if err := f.Create(&questions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	question, ok := f.db.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &question, nil
}

func (f *fakeQuestionRepo) FindBySubjectAndDifficulty(subject, difficulty string, limit int) ([]model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Question
	for id := uint(1); id <= f.db.nextID; id++ {
		question, ok := f.db.questions[id]
		if !ok || question.Subject != subject {
			continue
		}
		if difficulty != "" && difficulty != model.DifficultyMixed && question.Difficulty != difficulty {
			continue
		}
		out = append(out, question)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindAll(subject, difficulty string) ([]model.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Question
	for id := uint(1); id <= f.db.nextID; id++ {
		question, ok := f.db.questions[id]
		if !ok {
			continue
		}
		if subject != "" && question.Subject != subject {
			continue
		}
		if difficulty != "" && question.Difficulty != difficulty {
			continue
		}
		out = append(out, question)
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(question *model.Question) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.questions[question.ID] = *question
	return nil
}

func (f *fakeQuestionRepo) Delete(id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	delete(f.db.questions, id)
	return nil
}

// --- SessionRepository fake ---

type fakeSessionRepo struct{ db *memDB }

func (f *fakeSessionRepo) CreateWithAssignments(session *model.TestSession, assignments []model.SessionQuestionAssignment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.sessions[session.ID] = *session
	for i := range assignments {
		assignments[i].SessionID = session.ID
		assignments[i].Question = f.db.questions[assignments[i].QuestionID]
		f.db.assignments = append(f.db.assignments, assignments[i])
	}
	return nil
}

func (f *fakeSessionRepo) FindByID(id string) (*model.TestSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	session, ok := f.db.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (f *fakeSessionRepo) CompleteIfActive(id string, completedAt time.Time, durationSeconds int) (bool, error) {
	return f.transitionIfActive(id, model.SessionStatusCompleted, completedAt, durationSeconds)
}

func (f *fakeSessionRepo) AbandonIfActive(id string, abandonedAt time.Time, durationSeconds int) (bool, error) {
	return f.transitionIfActive(id, model.SessionStatusAbandoned, abandonedAt, durationSeconds)
}

func (f *fakeSessionRepo) transitionIfActive(id string, status model.SessionStatus, at time.Time, durationSeconds int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	session, ok := f.db.sessions[id]
	if !ok || session.Status != model.SessionStatusActive {
		return false, nil
	}
	session.Status = status
	session.CompletedAt = &at
	session.DurationSeconds = &durationSeconds
	f.db.sessions[id] = session
	return true, nil
}

func (f *fakeSessionRepo) FindAllByUser(userID string) ([]model.TestSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.TestSession
	for _, session := range f.db.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	return out, nil
}

// --- AssignmentRepository fake ---

type fakeAssignmentRepo struct{ db *memDB }

func (f *fakeAssignmentRepo) FindBySessionAndNumber(sessionID string, questionNumber int) (*model.SessionQuestionAssignment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for i := range f.db.assignments {
		if f.db.assignments[i].SessionID == sessionID && f.db.assignments[i].QuestionNumber == questionNumber {
			assignment := f.db.assignments[i]
			return &assignment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) FindBySessionAndQuestion(sessionID string, questionID uint) (*model.SessionQuestionAssignment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for i := range f.db.assignments {
		if f.db.assignments[i].SessionID == sessionID && f.db.assignments[i].QuestionID == questionID {
			assignment := f.db.assignments[i]
			return &assignment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) FindBySession(sessionID string) ([]model.SessionQuestionAssignment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.SessionQuestionAssignment
	for i := range f.db.assignments {
		if f.db.assignments[i].SessionID == sessionID {
			out = append(out, f.db.assignments[i])
		}
	}
	return out, nil
}

// --- AnswerRepository fake ---

type fakeAnswerRepo struct{ db *memDB }

func (f *fakeAnswerRepo) Upsert(answer *model.UserAnswer) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failUpsert {
		return fmt.Errorf("simulated storage failure")
	}
	key := answerKey(answer.SessionID, answer.QuestionID)
	if existing, ok := f.db.answers[key]; ok {
		existing.SelectedAnswer = answer.SelectedAnswer
		existing.TimeSpentSeconds = answer.TimeSpentSeconds
		existing.MarkedForReview = answer.MarkedForReview
		existing.IsCorrect = answer.IsCorrect
		f.db.answers[key] = existing
		return nil
	}
	stored := *answer
	stored.Question = f.db.questions[answer.QuestionID]
	f.db.answers[key] = stored
	return nil
}

func (f *fakeAnswerRepo) FindBySessionAndQuestion(sessionID string, questionID uint) (*model.UserAnswer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	answer, ok := f.db.answers[answerKey(sessionID, questionID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &answer, nil
}

func (f *fakeAnswerRepo) FindBySession(sessionID string) ([]model.UserAnswer, error) {
	return f.FindBySessionWithQuestions(sessionID)
}

func (f *fakeAnswerRepo) FindBySessionWithQuestions(sessionID string) ([]model.UserAnswer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.UserAnswer
	for _, answer := range f.db.answers {
		if answer.SessionID == sessionID {
			out = append(out, answer)
		}
	}
	return out, nil
}

func (f *fakeAnswerRepo) CountAnswered(sessionID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var count int64
	for _, answer := range f.db.answers {
		if answer.SessionID == sessionID && answer.SelectedAnswer != nil {
			count++
		}
	}
	return count, nil
}
