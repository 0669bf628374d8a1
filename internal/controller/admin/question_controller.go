package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/mocktest/internal/controller"
	"github.com/prepforge/mocktest/internal/dto"
	"github.com/prepforge/mocktest/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questions service.QuestionAdminService
}

func NewQuestionController(questions service.QuestionAdminService) *QuestionController {
	return &QuestionController{questions: questions}
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the bank
// @Tags Admin - Question Bank
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuestion: failed to bind request")
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	question, err := c.questions.CreateQuestion(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// BulkCreateQuestions godoc
// @Summary (Admin) Add a batch of questions to the bank
// @Tags Admin - Question Bank
// @Accept json
// @Produce json
// @Param questions body dto.BulkCreateQuestionsRequest true "Questions"
// @Success 201 {object} map[string]int
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions/bulk [post]
func (c *QuestionController) BulkCreateQuestions(ctx *gin.Context) {
	var req dto.BulkCreateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("BulkCreateQuestions: failed to bind request")
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	created, err := c.questions.BulkCreateQuestions(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"created": created})
}

// ListQuestions godoc
// @Summary (Admin) List bank questions
// @Tags Admin - Question Bank
// @Produce json
// @Param subject query string false "Filter by subject"
// @Param difficulty query string false "Filter by difficulty"
// @Success 200 {array} dto.QuestionAdminDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questions.ListQuestions(ctx.Query("subject"), ctx.Query("difficulty"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GenerateQuestions godoc
// @Summary (Admin) Generate questions with the AI content service
// @Description Drafts multiple-choice questions via the LLM sibling and adds
// @Description the well-formed ones to the bank.
// @Tags Admin - Question Bank
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Generation parameters"
// @Success 201 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "CIRCUIT_OPEN"
// @Router /admin/questions/generate [post]
func (c *QuestionController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateQuestions: failed to bind request")
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	questions, err := c.questions.GenerateQuestions(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, questions)
}

// ExplainAnswer godoc
// @Summary (Admin) Explain a question's answer
// @Tags Admin - Question Bank
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param request body dto.ExplainAnswerRequest true "The selected answer to explain against"
// @Success 200 {object} dto.ExplanationDTO
// @Failure 404 {object} dto.ErrorResponse "QUESTION_NOT_FOUND"
// @Failure 503 {object} dto.ErrorResponse "CIRCUIT_OPEN"
// @Router /admin/questions/{id}/explain [post]
func (c *QuestionController) ExplainAnswer(ctx *gin.Context) {
	questionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		controller.RespondBadRequest(ctx, "Invalid question ID format")
		return
	}

	var req dto.ExplainAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBadRequest(ctx, "Invalid request body: "+err.Error())
		return
	}

	explanation, err := c.questions.ExplainAnswer(ctx.Request.Context(), uint(questionID), req.SelectedAnswer)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, explanation)
}
