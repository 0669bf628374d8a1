package service

import (
	"context"
	"time"

	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/resilience"
	"github.com/rs/zerolog/log"
)

// AnalyticsService keeps the independently-deployed analytics sibling in
// step with this service: completed results are pushed to it, and a
// verification path cross-checks the two copies for agreement.
type AnalyticsService interface {
	// PublishResults forwards a completed session's results to the analytics
	// peer, retrying until the peer acknowledges the right session. Callers
	// treat failure as non-fatal; the submit itself has already succeeded.
	PublishResults(ctx context.Context, results *dto.TestResultsDTO) error
	// VerifyResults recomputes the local results and fetches the peer's copy
	// concurrently, then classifies the peer copy against the local one.
	VerifyResults(ctx context.Context, sessionID string) (*dto.ResultVerificationDTO, error)
}

type analyticsService struct {
	sessions   SessionService
	comm       *resilience.Communicator
	breaker    *resilience.Breaker
	maxRetries int
	retryDelay time.Duration
}

func NewAnalyticsService(
	sessions SessionService,
	comm *resilience.Communicator,
	breaker *resilience.Breaker,
	maxRetries int,
	retryDelay time.Duration,
) AnalyticsService {
	return &analyticsService{
		sessions:   sessions,
		comm:       comm,
		breaker:    breaker,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

type publishAck struct {
	SessionID string `json:"sessionId"`
}

func (s *analyticsService) PublishResults(ctx context.Context, results *dto.TestResultsDTO) error {
	publish := func(ctx context.Context) (publishAck, error) {
		var ack publishAck
		err := s.breaker.Do(func() error {
			return s.comm.Send(ctx, "test_completed", results, &ack)
		})
		return ack, err
	}
	accepted := func(ack publishAck) bool {
		return ack.SessionID == results.SessionID
	}

	_, err := resilience.RetryUntilConsistent(ctx, publish, accepted, s.maxRetries, s.retryDelay)
	if err != nil {
		log.Error().Err(err).Str("sessionID", results.SessionID).Msg("Failed to publish results to analytics")
		return err
	}
	log.Info().Str("sessionID", results.SessionID).Msg("Results published to analytics")
	return nil
}

type verifyQuery struct {
	SessionID string `json:"sessionId"`
}

func (s *analyticsService) VerifyResults(ctx context.Context, sessionID string) (*dto.ResultVerificationDTO, error) {
	local := func(ctx context.Context) (dto.TestResultsDTO, error) {
		results, err := s.sessions.GetResults(sessionID)
		if err != nil {
			return dto.TestResultsDTO{}, err
		}
		return *results, nil
	}
	remote := func(ctx context.Context) (dto.TestResultsDTO, error) {
		var results dto.TestResultsDTO
		err := s.breaker.Do(func() error {
			return s.comm.Send(ctx, "get_result", verifyQuery{SessionID: sessionID}, &results)
		})
		return results, err
	}

	// Local recomputation is the reference copy; the peer is classified
	// against it.
	result, err := resilience.ValidateConsistency(ctx,
		[]resilience.Source[dto.TestResultsDTO]{local, remote},
		resultsAgree,
	)
	if err != nil {
		return nil, err
	}

	return &dto.ResultVerificationDTO{
		SessionID:  sessionID,
		Consistent: result.Consistent,
		Reference:  result.Data,
		Conflicts:  result.Conflicts,
	}, nil
}

func resultsAgree(a, b dto.TestResultsDTO) bool {
	return a.SessionID == b.SessionID &&
		a.TotalQuestions == b.TotalQuestions &&
		a.AnsweredQuestions == b.AnsweredQuestions &&
		a.CorrectAnswers == b.CorrectAnswers &&
		a.Accuracy == b.Accuracy
}
