package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prepforge/mocktest/internal/clock"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (SessionService, *memDB, *clock.Fake) {
	t.Helper()
	db := newMemDB()
	clk := clock.NewFake(testStart)
	svc := NewSessionService(
		&fakeSessionRepo{db: db},
		&fakeQuestionRepo{db: db},
		&fakeAssignmentRepo{db: db},
		&fakeAnswerRepo{db: db},
		clk,
	)
	return svc, db, clk
}

func seedAllSubjects(db *memDB, perDifficulty int) {
	for _, subject := range model.Subjects {
		db.seedQuestions(subject, model.DifficultyEasy, perDifficulty)
		db.seedQuestions(subject, model.DifficultyMedium, perDifficulty)
		db.seedQuestions(subject, model.DifficultyHard, perDifficulty)
	}
}

func startRequest(subjects []string, perSubject, timeLimit int, difficulty string) dto.StartTestRequest {
	return dto.StartTestRequest{
		UserID:   "user-1",
		TestType: "custom",
		Configuration: dto.ConfigurationDTO{
			Subjects:            subjects,
			QuestionsPerSubject: perSubject,
			TimeLimitMinutes:    timeLimit,
			Difficulty:          difficulty,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestStartSessionReportsAllViolations(t *testing.T) {
	svc, _, _ := newTestEngine(t)

	_, err := svc.StartSession(startRequest(
		[]string{"physics", "physics", "botany"}, 0, 500, "extreme",
	))
	require.Error(t, err)

	var invalid *InvalidConfigurationError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Violations, 5)
	assert.Contains(t, invalid.Violations, `unknown subject "botany"`)
	assert.Contains(t, invalid.Violations, `duplicate subject "physics"`)
	assert.Contains(t, invalid.Violations, "questionsPerSubject must be between 1 and 100")
	assert.Contains(t, invalid.Violations, "timeLimitMinutes must be between 1 and 300")
	assert.Contains(t, invalid.Violations, `unknown difficulty "extreme"`)
}

func TestStartSessionEmptySubjects(t *testing.T) {
	svc, _, _ := newTestEngine(t)

	_, err := svc.StartSession(startRequest(nil, 10, 60, model.DifficultyMixed))

	var invalid *InvalidConfigurationError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Violations, "subjects must not be empty")
}

func TestStartFullMockSession(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	seedAllSubjects(db, 25) // mixed 40/subject needs 12 easy, 20 medium, 8 hard

	session, err := svc.StartSession(startRequest(
		model.Subjects, 40, 180, model.DifficultyMixed,
	))
	require.NoError(t, err)

	assert.Equal(t, 120, session.TotalQuestions)
	assert.Equal(t, string(model.SessionStatusActive), session.Status)
	assert.Equal(t, testStart, session.StartedAt)
	assert.Nil(t, session.CompletedAt)

	state, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 10800, state.RemainingTimeSeconds)
	assert.Equal(t, 0, state.Progress.AnsweredQuestions)
	assert.Equal(t, 120, state.Progress.TotalQuestions)
}

func TestStartSessionInsufficientBank(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 3)

	_, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 10, 60, model.DifficultyEasy,
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTestCreationFailed)
}

func TestGetSessionNotFound(t *testing.T) {
	svc, _, _ := newTestEngine(t)

	_, err := svc.GetSession("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLazyExpiryOnRead(t *testing.T) {
	svc, db, clk := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 1, model.DifficultyEasy,
	))
	require.NoError(t, err)

	clk.Advance(61 * time.Second)

	// Reading the overrun session completes it first.
	state, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionStatusCompleted), state.Session.Status)
	assert.Equal(t, 0, state.RemainingTimeSeconds)
	require.NotNil(t, state.Session.DurationSeconds)
	assert.Equal(t, 61, *state.Session.DurationSeconds)
	require.NotNil(t, state.Session.CompletedAt)
	assert.Equal(t, testStart.Add(61*time.Second), *state.Session.CompletedAt)
}

func TestExpiryDetectedByMutation(t *testing.T) {
	svc, db, clk := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 1, model.DifficultyEasy,
	))
	require.NoError(t, err)

	clk.Advance(60 * time.Second) // exactly at the limit counts as expired

	// The call that trips expiry reports SESSION_EXPIRED.
	_, err = svc.GetQuestion(session.ID, 1)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Subsequent calls see a session that was already terminal.
	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{QuestionID: 1, SelectedAnswer: strPtr("A")})
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestGetQuestionDelivery(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 3, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, delivery.QuestionNumber)
	assert.Equal(t, 3, delivery.TotalQuestions)
	assert.Equal(t, model.SubjectPhysics, delivery.Question.Subject)
	assert.Len(t, delivery.Question.Options, 4)
	assert.Nil(t, delivery.ExistingAnswer)
	assert.Equal(t, 3600, delivery.RemainingTimeSeconds)

	// Out-of-range numbers are question-not-found, not panics.
	_, err = svc.GetQuestion(session.ID, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	_, err = svc.GetQuestion(session.ID, 4)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestGetQuestionEchoesExistingAnswer(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 3, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:      delivery.Question.ID,
		SelectedAnswer:  strPtr("B"),
		MarkedForReview: true,
	})
	require.NoError(t, err)

	delivery, err = svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, delivery.ExistingAnswer)
	assert.Equal(t, "B", *delivery.ExistingAnswer.SelectedAnswer)
	assert.True(t, delivery.ExistingAnswer.MarkedForReview)
}

func TestSubmitAnswerScoresAgainstBank(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)
	questionID := delivery.Question.ID

	resp, err := svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: strPtr("A"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AnswerID)

	stored, err := (&fakeAnswerRepo{db: db}).FindBySessionAndQuestion(session.ID, questionID)
	require.NoError(t, err)
	assert.True(t, stored.IsCorrect)

	// Unassigned question id is rejected.
	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     9999,
		SelectedAnswer: strPtr("A"),
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestResubmissionOverwritesAndKeepsAnswerID(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)
	questionID := delivery.Question.ID

	first, err := svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: strPtr("A"),
	})
	require.NoError(t, err)

	second, err := svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: strPtr("B"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.AnswerID, second.AnswerID)

	stored, err := (&fakeAnswerRepo{db: db}).FindBySessionAndQuestion(session.ID, questionID)
	require.NoError(t, err)
	assert.Equal(t, "B", *stored.SelectedAnswer)
	assert.False(t, stored.IsCorrect)
}

func TestSkippedAnswerIsNeverCorrect(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     delivery.Question.ID,
		SelectedAnswer: nil,
	})
	require.NoError(t, err)

	stored, err := (&fakeAnswerRepo{db: db}).FindBySessionAndQuestion(session.ID, delivery.Question.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCorrect)
	assert.False(t, stored.Answered())
}

func TestSubmitAnswerPersistenceFailure(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)

	db.failUpsert = true
	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     delivery.Question.ID,
		SelectedAnswer: strPtr("A"),
	})
	assert.ErrorIs(t, err, ErrAnswerSubmissionFailed)
}

func TestSubmitSessionAggregatesResults(t *testing.T) {
	svc, db, clk := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)
	db.seedQuestions(model.SubjectChemistry, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics, model.SubjectChemistry}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)
	require.Equal(t, 4, session.TotalQuestions)

	answerQuestion := func(number int, selection *string) {
		delivery, err := svc.GetQuestion(session.ID, number)
		require.NoError(t, err)
		_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
			QuestionID:     delivery.Question.ID,
			SelectedAnswer: selection,
		})
		require.NoError(t, err)
	}
	answerQuestion(1, strPtr("A")) // physics, correct
	answerQuestion(2, strPtr("B")) // physics, wrong
	answerQuestion(3, nil)         // chemistry, skipped
	// question 4 never touched

	clk.Advance(25 * time.Minute)
	results, err := svc.SubmitSession(session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, results.SessionID)
	assert.Equal(t, string(model.SessionStatusCompleted), results.Status)
	assert.Equal(t, 4, results.TotalQuestions)
	assert.Equal(t, 2, results.AnsweredQuestions) // the skip stays out of the denominator
	assert.Equal(t, 1, results.CorrectAnswers)
	assert.InDelta(t, 50.0, results.Accuracy, 1e-9)
	assert.Equal(t, 1500, results.DurationSeconds)
	assert.Equal(t, testStart.Add(25*time.Minute), results.CompletedAt)

	require.Len(t, results.Subjects, 2)
	physics := results.Subjects[0]
	assert.Equal(t, model.SubjectPhysics, physics.Subject)
	assert.Equal(t, 2, physics.TotalQuestions)
	assert.Equal(t, 2, physics.AnsweredQuestions)
	assert.Equal(t, 1, physics.CorrectAnswers)
	assert.InDelta(t, 50.0, physics.Accuracy, 1e-9)

	chemistry := results.Subjects[1]
	assert.Equal(t, model.SubjectChemistry, chemistry.Subject)
	assert.Equal(t, 2, chemistry.TotalQuestions)
	assert.Equal(t, 0, chemistry.AnsweredQuestions)
	assert.Equal(t, 0, chemistry.CorrectAnswers)
	assert.Zero(t, chemistry.Accuracy)
}

func TestSubmitSessionIsTerminal(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	_, err = svc.SubmitSession(session.ID)
	require.NoError(t, err)

	_, err = svc.SubmitSession(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)

	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{QuestionID: 1, SelectedAnswer: strPtr("A")})
	assert.ErrorIs(t, err, ErrSessionNotActive)

	_, err = svc.GetQuestion(session.ID, 1)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestGetResultsMatchesSubmission(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectMathematics, model.DifficultyEasy, 5)

	session, err := svc.StartSession(startRequest(
		[]string{model.SubjectMathematics}, 3, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	delivery, err := svc.GetQuestion(session.ID, 1)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(session.ID, dto.SubmitAnswerRequest{
		QuestionID:     delivery.Question.ID,
		SelectedAnswer: strPtr("A"),
	})
	require.NoError(t, err)

	// Results are unavailable while the session runs.
	_, err = svc.GetResults(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)

	submitted, err := svc.SubmitSession(session.ID)
	require.NoError(t, err)

	fetched, err := svc.GetResults(session.ID)
	require.NoError(t, err)
	assert.Equal(t, submitted, fetched)
}

func TestGetHistory(t *testing.T) {
	svc, db, _ := newTestEngine(t)
	db.seedQuestions(model.SubjectPhysics, model.DifficultyEasy, 5)

	first, err := svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)
	_, err = svc.SubmitSession(first.ID)
	require.NoError(t, err)

	_, err = svc.StartSession(startRequest(
		[]string{model.SubjectPhysics}, 2, 60, model.DifficultyEasy,
	))
	require.NoError(t, err)

	history, err := svc.GetHistory("user-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	for _, summary := range history {
		assert.Equal(t, []string{model.SubjectPhysics}, summary.Subjects)
		assert.Equal(t, 2, summary.TotalQuestions)
	}

	other, err := svc.GetHistory("someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}
