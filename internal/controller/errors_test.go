package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/resilience"
	"github.com/prepforge/mocktest/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondErrorCodeMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
		{service.ErrQuestionNotFound, http.StatusNotFound, CodeQuestionNotFound},
		{service.ErrAnswerNotFound, http.StatusNotFound, CodeAnswerNotFound},
		{service.ErrSessionNotActive, http.StatusBadRequest, CodeSessionNotActive},
		{service.ErrSessionExpired, http.StatusBadRequest, CodeSessionExpired},
		{service.ErrAnswerSubmissionFailed, http.StatusInternalServerError, CodeAnswerSubmissionFailed},
		{service.ErrTestCreationFailed, http.StatusInternalServerError, CodeTestCreationFailed},
		{resilience.ErrCircuitOpen, http.StatusServiceUnavailable, CodeCircuitOpen},
		{resilience.ErrRetriesExhausted, http.StatusBadGateway, CodeConsistencyFailed},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tc := range cases {
		w, body := respond(t, tc.err)
		assert.Equal(t, tc.status, w.Code, "status for %v", tc.err)
		assert.Equal(t, tc.code, body.Error.Code, "code for %v", tc.err)
		assert.NotEmpty(t, body.Error.Message)
		assert.False(t, body.Error.Timestamp.IsZero())
	}
}

func TestRespondErrorUnwrapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("completing session abc: %w", service.ErrSessionNotActive)
	w, body := respond(t, wrapped)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeSessionNotActive, body.Error.Code)
}

func TestRespondErrorCarriesConfigurationViolations(t *testing.T) {
	err := &service.InvalidConfigurationError{Violations: []string{
		"subjects must not be empty",
		`unknown difficulty "extreme"`,
	}}
	w, body := respond(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidConfiguration, body.Error.Code)
	assert.Equal(t, err.Violations, body.Error.Details)
}

func TestRespondBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondBadRequest(c, "userId query parameter is required")

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidRequest, body.Error.Code)
	assert.Equal(t, "userId query parameter is required", body.Error.Message)
}
