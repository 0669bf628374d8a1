// Package controller holds the pieces shared by the admin and user HTTP
// façades, chiefly the mapping from engine failure kinds to stable wire
// codes. Codes are the machine contract; messages are free to change.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/middleware"
	"github.com/prepforge/mocktest/internal/resilience"
	"github.com/prepforge/mocktest/internal/service"
)

const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidConfiguration   = "INVALID_CONFIGURATION"
	CodeSessionNotFound        = "SESSION_NOT_FOUND"
	CodeQuestionNotFound       = "QUESTION_NOT_FOUND"
	CodeAnswerNotFound         = "ANSWER_NOT_FOUND"
	CodeSessionNotActive       = "SESSION_NOT_ACTIVE"
	CodeSessionExpired         = "SESSION_EXPIRED"
	CodeAnswerSubmissionFailed = "ANSWER_SUBMISSION_FAILED"
	CodeTestCreationFailed     = "TEST_CREATION_FAILED"
	CodeCircuitOpen            = "CIRCUIT_OPEN"
	CodeConsistencyFailed      = "CONSISTENCY_CHECK_FAILED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// RespondError translates a service failure into the HTTP status and error
// envelope of the API contract.
func RespondError(c *gin.Context, err error) {
	status, code := classify(err)

	var details []string
	var invalidConfig *service.InvalidConfigurationError
	if errors.As(err, &invalidConfig) {
		details = invalidConfig.Violations
	}

	c.JSON(status, dto.ErrorResponse{
		Error: dto.ErrorBody{
			Code:      code,
			Message:   err.Error(),
			Details:   details,
			Timestamp: time.Now(),
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// RespondBadRequest reports a malformed request body or path parameter.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: dto.ErrorBody{
			Code:      CodeInvalidRequest,
			Message:   message,
			Timestamp: time.Now(),
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func classify(err error) (int, string) {
	var invalidConfig *service.InvalidConfigurationError
	switch {
	case errors.As(err, &invalidConfig):
		return http.StatusBadRequest, CodeInvalidConfiguration
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, CodeSessionNotFound
	case errors.Is(err, service.ErrQuestionNotFound):
		return http.StatusNotFound, CodeQuestionNotFound
	case errors.Is(err, service.ErrAnswerNotFound):
		return http.StatusNotFound, CodeAnswerNotFound
	case errors.Is(err, service.ErrSessionNotActive):
		return http.StatusBadRequest, CodeSessionNotActive
	case errors.Is(err, service.ErrSessionExpired):
		return http.StatusBadRequest, CodeSessionExpired
	case errors.Is(err, service.ErrAnswerSubmissionFailed):
		return http.StatusInternalServerError, CodeAnswerSubmissionFailed
	case errors.Is(err, service.ErrTestCreationFailed):
		return http.StatusInternalServerError, CodeTestCreationFailed
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable, CodeCircuitOpen
	case errors.Is(err, resilience.ErrRetriesExhausted):
		return http.StatusBadGateway, CodeConsistencyFailed
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}
