package user

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/mocktest/internal/controller"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/service"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	catalog   service.CatalogService
	sessions  service.SessionService
	analytics service.AnalyticsService
}

func NewSessionController(catalog service.CatalogService, sessions service.SessionService, analytics service.AnalyticsService) *SessionController {
	return &SessionController{
		catalog:   catalog,
		sessions:  sessions,
		analytics: analytics,
	}
}

// ListAvailableTests godoc
// @Summary List available tests
// @Description Predefined test offerings a user can start a session from.
// @Tags Tests
// @Produce json
// @Success 200 {array} dto.TestTemplateDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/available [get]
func (c *SessionController) ListAvailableTests(ctx *gin.Context) {
	templates, err := c.catalog.ListAvailableTests()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, templates)
}

// StartSession godoc
// @Summary Start a test session
// @Description Validates the configuration, assigns questions and starts the clock.
// @Tags Tests
// @Accept json
// @Produce json
// @Param request body dto.StartTestRequest true "User, test type and configuration"
// @Success 201 {object} dto.SessionDTO
// @Failure 400 {object} dto.ErrorResponse "INVALID_REQUEST or INVALID_CONFIGURATION"
// @Failure 500 {object} dto.ErrorResponse "TEST_CREATION_FAILED"
// @Router /tests/start [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	var req dto.StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: failed to bind request")
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	session, err := c.sessions.StartSession(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary Get session state
// @Description Session, answer progress and remaining time. Reading an
// @Description overrun active session completes it first (lazy expiry).
// @Tags Tests
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND"
// @Router /tests/session/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	state, err := c.sessions.GetSession(ctx.Param("id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// GetQuestion godoc
// @Summary Get one question of an active session
// @Description Question view without the correct answer, plus any previously
// @Description recorded answer and the remaining time.
// @Tags Tests
// @Produce json
// @Param id path string true "Session ID"
// @Param num path int true "Question number (1-based)"
// @Success 200 {object} dto.QuestionDeliveryDTO
// @Failure 400 {object} dto.ErrorResponse "SESSION_NOT_ACTIVE or SESSION_EXPIRED"
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND or QUESTION_NOT_FOUND"
// @Router /tests/session/{id}/question/{num} [get]
func (c *SessionController) GetQuestion(ctx *gin.Context) {
	questionNumber, err := strconv.Atoi(ctx.Param("num"))
	if err != nil {
		controller.RespondBadRequest(ctx, "Invalid question number")
		return
	}

	delivery, err := c.sessions.GetQuestion(ctx.Param("id"), questionNumber)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, delivery)
}

// SubmitAnswer godoc
// @Summary Submit or revise an answer
// @Description Records the selection for one question. Resubmitting the same
// @Description question while the session is active overwrites the prior answer.
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "SESSION_NOT_ACTIVE or SESSION_EXPIRED"
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND or QUESTION_NOT_FOUND"
// @Failure 500 {object} dto.ErrorResponse "ANSWER_SUBMISSION_FAILED"
// @Router /tests/session/{id}/answer [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: failed to bind request")
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	resp, err := c.sessions.SubmitAnswer(ctx.Param("id"), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitSession godoc
// @Summary Submit the whole session
// @Description One-way terminal transition; aggregates results. Resubmitting
// @Description a completed session fails with SESSION_NOT_ACTIVE.
// @Tags Tests
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.TestResultsDTO
// @Failure 400 {object} dto.ErrorResponse "SESSION_NOT_ACTIVE"
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND"
// @Router /tests/session/{id}/submit [post]
func (c *SessionController) SubmitSession(ctx *gin.Context) {
	results, err := c.sessions.SubmitSession(ctx.Param("id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	// Best-effort hand-off to the analytics sibling. The submission already
	// succeeded; publication failures are retried inside and only logged.
	go func(results dto.TestResultsDTO) {
		publishCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.analytics.PublishResults(publishCtx, &results); err != nil {
			log.Warn().Err(err).Str("sessionID", results.SessionID).Msg("Analytics publication incomplete")
		}
	}(*results)

	ctx.JSON(http.StatusOK, results)
}

// GetResults godoc
// @Summary Get results of a finished session
// @Tags Tests
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.TestResultsDTO
// @Failure 400 {object} dto.ErrorResponse "SESSION_NOT_ACTIVE"
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND"
// @Router /tests/session/{id}/results [get]
func (c *SessionController) GetResults(ctx *gin.Context) {
	results, err := c.sessions.GetResults(ctx.Param("id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// VerifyResults godoc
// @Summary Cross-check results against the analytics service
// @Description Recomputes results locally and fetches the analytics copy in
// @Description parallel, reporting whether the two agree.
// @Tags Tests
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultVerificationDTO
// @Failure 404 {object} dto.ErrorResponse "SESSION_NOT_FOUND"
// @Failure 502 {object} dto.ErrorResponse "CONSISTENCY_CHECK_FAILED"
// @Failure 503 {object} dto.ErrorResponse "CIRCUIT_OPEN"
// @Router /tests/session/{id}/results/verify [get]
func (c *SessionController) VerifyResults(ctx *gin.Context) {
	verification, err := c.analytics.VerifyResults(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, verification)
}

// GetHistory godoc
// @Summary Get a user's session history
// @Tags Tests
// @Produce json
// @Param userId query string true "User ID"
// @Success 200 {array} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "INVALID_REQUEST"
// @Router /tests/history [get]
func (c *SessionController) GetHistory(ctx *gin.Context) {
	userID := ctx.Query("userId")
	if userID == "" {
		controller.RespondBadRequest(ctx, "userId query parameter is required")
		return
	}

	history, err := c.sessions.GetHistory(userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
