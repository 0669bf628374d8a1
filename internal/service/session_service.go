package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/prepforge/mocktest/internal/clock"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionService owns the test-session state machine: creation, question
// delivery, answer recording, expiry enforcement and scoring. Sessions move
// active -> completed (explicit submit or lazy expiry) or active -> abandoned
// (administrative); both end states are terminal.
//
// Expiry is lazy by design: there is no background sweep. Every read or
// mutation first checks the time limit and, when it has passed, performs the
// terminal transition itself before answering.
type SessionService interface {
	StartSession(req dto.StartTestRequest) (*dto.SessionDTO, error)
	GetSession(sessionID string) (*dto.SessionStateDTO, error)
	GetQuestion(sessionID string, questionNumber int) (*dto.QuestionDeliveryDTO, error)
	SubmitAnswer(sessionID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	SubmitSession(sessionID string) (*dto.TestResultsDTO, error)
	GetResults(sessionID string) (*dto.TestResultsDTO, error)
	GetHistory(userID string) ([]dto.SessionSummaryDTO, error)
}

type sessionService struct {
	sessions    repository.SessionRepository
	assignments repository.AssignmentRepository
	answers     repository.AnswerRepository
	selector    *questionSelector
	clock       clock.Clock
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	assignmentRepo repository.AssignmentRepository,
	answerRepo repository.AnswerRepository,
	clk clock.Clock,
) SessionService {
	return &sessionService{
		sessions:    sessionRepo,
		assignments: assignmentRepo,
		answers:     answerRepo,
		selector:    newQuestionSelector(questionRepo),
		clock:       clk,
	}
}

func validateConfiguration(cfg model.TestConfiguration) []string {
	var violations []string

	if len(cfg.Subjects) == 0 {
		violations = append(violations, "subjects must not be empty")
	}
	seen := make(map[string]bool)
	for _, subject := range cfg.Subjects {
		if !model.ValidSubject(subject) {
			violations = append(violations, fmt.Sprintf("unknown subject %q", subject))
		}
		if seen[subject] {
			violations = append(violations, fmt.Sprintf("duplicate subject %q", subject))
		}
		seen[subject] = true
	}
	if cfg.QuestionsPerSubject < 1 || cfg.QuestionsPerSubject > 100 {
		violations = append(violations, "questionsPerSubject must be between 1 and 100")
	}
	if cfg.TimeLimitMinutes < 1 || cfg.TimeLimitMinutes > 300 {
		violations = append(violations, "timeLimitMinutes must be between 1 and 300")
	}
	if !model.ValidDifficulty(cfg.Difficulty) {
		violations = append(violations, fmt.Sprintf("unknown difficulty %q", cfg.Difficulty))
	}

	return violations
}

func (s *sessionService) StartSession(req dto.StartTestRequest) (*dto.SessionDTO, error) {
	cfg := model.TestConfiguration{
		Subjects:            req.Configuration.Subjects,
		QuestionsPerSubject: req.Configuration.QuestionsPerSubject,
		TimeLimitMinutes:    req.Configuration.TimeLimitMinutes,
		Difficulty:          req.Configuration.Difficulty,
		Randomize:           req.Configuration.Randomize,
	}

	if violations := validateConfiguration(cfg); len(violations) > 0 {
		return nil, &InvalidConfigurationError{Violations: violations}
	}

	questions, err := s.selector.Select(cfg)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("StartSession: question selection failed")
		return nil, fmt.Errorf("%w: %v", ErrTestCreationFailed, err)
	}

	session := &model.TestSession{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		TestType:       model.TestType(req.TestType),
		Status:         model.SessionStatusActive,
		StartedAt:      s.clock.Now(),
		TotalQuestions: len(cfg.Subjects) * cfg.QuestionsPerSubject,
		Config:         cfg,
	}

	assignments := make([]model.SessionQuestionAssignment, len(questions))
	for i, q := range questions {
		assignments[i] = model.SessionQuestionAssignment{
			QuestionNumber: i + 1,
			QuestionID:     q.ID,
		}
	}

	if err := s.sessions.CreateWithAssignments(session, assignments); err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("StartSession: persistence failed")
		return nil, fmt.Errorf("%w: %v", ErrTestCreationFailed, err)
	}

	log.Info().
		Str("sessionID", session.ID).
		Str("userID", session.UserID).
		Int("totalQuestions", session.TotalQuestions).
		Msg("Session started")
	return toSessionDTO(session), nil
}

// resolveSession loads a session and applies the lazy expiry transition when
// the time limit has passed. justExpired is true when expiry was detected on
// this call, whether this caller or a concurrent one won the terminal write.
func (s *sessionService) resolveSession(sessionID string) (session *model.TestSession, justExpired bool, err error) {
	session, err = s.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	if session.Status != model.SessionStatusActive || !session.Expired(s.clock.Now()) {
		return session, false, nil
	}

	now := s.clock.Now()
	elapsed := session.ElapsedSeconds(now)
	won, err := s.sessions.CompleteIfActive(sessionID, now, elapsed)
	if err != nil {
		return nil, false, fmt.Errorf("expiring session %s: %w", sessionID, err)
	}
	if won {
		log.Info().Str("sessionID", sessionID).Int("durationSeconds", elapsed).Msg("Session expired lazily")
	}

	session, err = s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("reloading expired session %s: %w", sessionID, err)
	}
	return session, true, nil
}

// requireActive maps a non-active session to the precondition failure the
// caller must see: SessionExpired when this very call tripped the expiry,
// SessionNotActive when the session was already terminal.
func requireActive(session *model.TestSession, justExpired bool) error {
	if session.Status == model.SessionStatusActive {
		return nil
	}
	if justExpired {
		return ErrSessionExpired
	}
	return ErrSessionNotActive
}

func (s *sessionService) GetSession(sessionID string) (*dto.SessionStateDTO, error) {
	session, _, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}

	answered, err := s.answers.CountAnswered(sessionID)
	if err != nil {
		return nil, fmt.Errorf("counting answers for session %s: %w", sessionID, err)
	}

	return &dto.SessionStateDTO{
		Session: *toSessionDTO(session),
		Progress: dto.ProgressDTO{
			AnsweredQuestions: int(answered),
			TotalQuestions:    session.TotalQuestions,
		},
		RemainingTimeSeconds: session.RemainingSeconds(s.clock.Now()),
	}, nil
}

func (s *sessionService) GetQuestion(sessionID string, questionNumber int) (*dto.QuestionDeliveryDTO, error) {
	session, justExpired, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(session, justExpired); err != nil {
		return nil, err
	}

	if questionNumber < 1 || questionNumber > session.TotalQuestions {
		return nil, ErrQuestionNotFound
	}

	assignment, err := s.assignments.FindBySessionAndNumber(sessionID, questionNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("loading assignment %s/%d: %w", sessionID, questionNumber, err)
	}

	var view dto.QuestionViewDTO
	if err := copier.Copy(&view, &assignment.Question); err != nil {
		return nil, fmt.Errorf("preparing question view: %w", err)
	}

	var existing *dto.ExistingAnswerDTO
	answer, err := s.answers.FindBySessionAndQuestion(sessionID, assignment.QuestionID)
	switch {
	case err == nil:
		existing = &dto.ExistingAnswerDTO{
			SelectedAnswer:  answer.SelectedAnswer,
			MarkedForReview: answer.MarkedForReview,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first visit, nothing recorded yet
	default:
		return nil, fmt.Errorf("loading prior answer %s/%d: %w", sessionID, assignment.QuestionID, err)
	}

	return &dto.QuestionDeliveryDTO{
		Question:             view,
		QuestionNumber:       questionNumber,
		TotalQuestions:       session.TotalQuestions,
		ExistingAnswer:       existing,
		RemainingTimeSeconds: session.RemainingSeconds(s.clock.Now()),
	}, nil
}

func (s *sessionService) SubmitAnswer(sessionID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	session, justExpired, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(session, justExpired); err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindBySessionAndQuestion(sessionID, req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("loading assignment for question %d: %w", req.QuestionID, err)
	}

	isCorrect := req.SelectedAnswer != nil && *req.SelectedAnswer == assignment.Question.CorrectAnswer

	answer := &model.UserAnswer{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		QuestionID:       req.QuestionID,
		SelectedAnswer:   req.SelectedAnswer,
		TimeSpentSeconds: req.TimeSpentSeconds,
		MarkedForReview:  req.MarkedForReview,
		IsCorrect:        isCorrect,
	}
	if err := s.answers.Upsert(answer); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Uint("questionID", req.QuestionID).Msg("SubmitAnswer: upsert failed")
		return nil, wrapSubmissionFailure(err)
	}

	// On resubmission the conflict clause keeps the original row; read back
	// the stored row so the caller always gets the persisted answer id.
	stored, err := s.answers.FindBySessionAndQuestion(sessionID, req.QuestionID)
	if err != nil {
		return nil, wrapSubmissionFailure(err)
	}

	return &dto.SubmitAnswerResponse{Success: true, AnswerID: stored.ID}, nil
}

func (s *sessionService) SubmitSession(sessionID string) (*dto.TestResultsDTO, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	now := s.clock.Now()
	won, err := s.sessions.CompleteIfActive(sessionID, now, session.ElapsedSeconds(now))
	if err != nil {
		return nil, fmt.Errorf("completing session %s: %w", sessionID, err)
	}
	if !won {
		// Already completed, abandoned, or lazily expired by a concurrent
		// reader. Resubmission deterministically fails.
		return nil, ErrSessionNotActive
	}

	session, err = s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("reloading session %s: %w", sessionID, err)
	}

	results, err := s.aggregateResults(session)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("sessionID", sessionID).
		Int("answered", results.AnsweredQuestions).
		Int("correct", results.CorrectAnswers).
		Float64("accuracy", results.Accuracy).
		Msg("Session submitted")
	return results, nil
}

func (s *sessionService) GetResults(sessionID string) (*dto.TestResultsDTO, error) {
	session, _, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusActive {
		return nil, ErrSessionNotActive
	}
	return s.aggregateResults(session)
}

// aggregateResults recomputes scoring from the persisted answer rows, so the
// figure a caller sees always matches what a later recomputation would yield.
func (s *sessionService) aggregateResults(session *model.TestSession) (*dto.TestResultsDTO, error) {
	answers, err := s.answers.FindBySessionWithQuestions(session.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for session %s: %w", session.ID, err)
	}
	assignments, err := s.assignments.FindBySession(session.ID)
	if err != nil {
		return nil, fmt.Errorf("loading assignments for session %s: %w", session.ID, err)
	}

	type subjectTally struct {
		total, answered, correct int
	}
	tallies := make(map[string]*subjectTally, len(session.Config.Subjects))
	for _, subject := range session.Config.Subjects {
		tallies[subject] = &subjectTally{}
	}
	for _, assignment := range assignments {
		if tally, ok := tallies[assignment.Question.Subject]; ok {
			tally.total++
		}
	}

	answered, correct := 0, 0
	for i := range answers {
		answer := &answers[i]
		if !answer.Answered() {
			continue
		}
		answered++
		tally := tallies[answer.Question.Subject]
		if tally != nil {
			tally.answered++
		}
		if answer.IsCorrect {
			correct++
			if tally != nil {
				tally.correct++
			}
		}
	}

	results := &dto.TestResultsDTO{
		SessionID:         session.ID,
		UserID:            session.UserID,
		TestType:          string(session.TestType),
		Status:            string(session.Status),
		TotalQuestions:    session.TotalQuestions,
		AnsweredQuestions: answered,
		CorrectAnswers:    correct,
		Accuracy:          accuracy(correct, answered),
	}
	if session.DurationSeconds != nil {
		results.DurationSeconds = *session.DurationSeconds
	}
	if session.CompletedAt != nil {
		results.CompletedAt = *session.CompletedAt
	}
	for _, subject := range session.Config.Subjects {
		tally := tallies[subject]
		results.Subjects = append(results.Subjects, dto.SubjectResultDTO{
			Subject:           subject,
			TotalQuestions:    tally.total,
			AnsweredQuestions: tally.answered,
			CorrectAnswers:    tally.correct,
			Accuracy:          accuracy(tally.correct, tally.answered),
		})
	}
	return results, nil
}

// accuracy is correct/answered as a percentage; zero when nothing was
// answered, never a division by zero.
func accuracy(correct, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

func (s *sessionService) GetHistory(userID string) ([]dto.SessionSummaryDTO, error) {
	sessions, err := s.sessions.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("loading history for user %s: %w", userID, err)
	}

	summaries := make([]dto.SessionSummaryDTO, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		summaries = append(summaries, dto.SessionSummaryDTO{
			ID:              session.ID,
			TestType:        string(session.TestType),
			Status:          string(session.Status),
			StartedAt:       session.StartedAt,
			CompletedAt:     session.CompletedAt,
			DurationSeconds: session.DurationSeconds,
			TotalQuestions:  session.TotalQuestions,
			Subjects:        session.Config.Subjects,
		})
	}
	return summaries, nil
}

func toSessionDTO(session *model.TestSession) *dto.SessionDTO {
	return &dto.SessionDTO{
		ID:              session.ID,
		UserID:          session.UserID,
		TestType:        string(session.TestType),
		Status:          string(session.Status),
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
		DurationSeconds: session.DurationSeconds,
		TotalQuestions:  session.TotalQuestions,
		Configuration: dto.ConfigurationDTO{
			Subjects:            session.Config.Subjects,
			QuestionsPerSubject: session.Config.QuestionsPerSubject,
			TimeLimitMinutes:    session.Config.TimeLimitMinutes,
			Difficulty:          session.Config.Difficulty,
			Randomize:           session.Config.Randomize,
		},
	}
}
