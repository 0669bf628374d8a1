package service

import (
	"errors"
	"fmt"
	"strings"
)

// Engine failure kinds. Controllers map these to HTTP statuses and stable
// machine codes; services only ever return one of these (possibly wrapped)
// or an infrastructure error wrapped with %w.
var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionNotActive       = errors.New("session is not active")
	ErrSessionExpired         = errors.New("session has expired")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrAnswerNotFound         = errors.New("answer not found")
	ErrAnswerSubmissionFailed = errors.New("answer submission failed")
	ErrTestCreationFailed     = errors.New("test creation failed")
)

// InvalidConfigurationError carries every violated rule, not just the first,
// so a caller can fix the whole configuration in one round trip.
type InvalidConfigurationError struct {
	Violations []string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid test configuration: " + strings.Join(e.Violations, "; ")
}

func wrapSubmissionFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrAnswerSubmissionFailed, err)
}
