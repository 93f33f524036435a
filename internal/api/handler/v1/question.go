package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/trivia-live-api/internal/api/middleware"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/service"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, question domain.Question, ownerID uint) (domain.Question, error)
	GetQuestion(ctx context.Context, id uint) (domain.Question, error)
	ListQuestions(ctx context.Context, roundID uint) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Question, error)
	DeleteQuestion(ctx context.Context, id, ownerID uint) error
	StartQuestion(ctx context.Context, id, ownerID uint) (domain.Question, error)
	CompleteQuestion(ctx context.Context, id, ownerID uint) (domain.Question, error)
	AdvanceQuestion(ctx context.Context, roundID, ownerID uint) (service.QuestionAdvance, error)
}

type SuggestionService interface {
	Suggest(ctx context.Context, topic string) ([]domain.SuggestedQuestion, error)
}

type QuestionHandler struct {
	svc        QuestionService
	suggestSvc SuggestionService
}

func NewQuestionHandler(svc QuestionService, suggestSvc SuggestionService) *QuestionHandler {
	return &QuestionHandler{
		svc:        svc,
		suggestSvc: suggestSvc,
	}
}

// HandleCreateQuestion godoc
// @Summary      Create a question
// @Description  The question is appended to the round with the next sequence number.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        roundID  path      int                           true  "Round ID"
// @Param        request  body      request.CreateQuestionRequest true  "request body"
// @Success      201      {object}  domain.Question
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID}/questions [post]
// @Security     BearerAuth
func (h *QuestionHandler) HandleCreateQuestion(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.CreateQuestionRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, err := h.svc.CreateQuestion(ctx.Request.Context(), domain.Question{
		RoundID:          roundID,
		QuestionText:     req.QuestionText,
		CorrectAnswer:    req.CorrectAnswer,
		Points:           req.Points,
		TimeLimitSeconds: req.TimeLimitSeconds,
	}, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, question)
}

// HandleListQuestions godoc
// @Summary      List a round's questions in sequence order
// @Tags         questions
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {array}   domain.Question
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID}/questions [get]
// @Security     BearerAuth
func (h *QuestionHandler) HandleListQuestions(ctx *gin.Context) {
	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	questions, err := h.svc.ListQuestions(ctx.Request.Context(), roundID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, questions)
}

// HandleGetQuestion godoc
// @Summary      Get one question
// @Tags         questions
// @Produce      json
// @Param        questionID  path      int  true  "Question ID"
// @Success      200         {object}  domain.Question
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID} [get]
// @Security     BearerAuth
func (h *QuestionHandler) HandleGetQuestion(ctx *gin.Context) {
	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, err := h.svc.GetQuestion(ctx.Request.Context(), questionID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, question)
}

// HandleUpdateQuestion godoc
// @Summary      Update a question's details
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        questionID  path      int                           true  "Question ID"
// @Param        request     body      request.UpdateQuestionRequest true  "request body"
// @Success      200         {object}  domain.Question
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID} [patch]
// @Security     BearerAuth
func (h *QuestionHandler) HandleUpdateQuestion(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateQuestionRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fields := map[string]any{}
	if req.QuestionText != nil {
		fields["question_text"] = *req.QuestionText
	}
	if req.CorrectAnswer != nil {
		fields["correct_answer"] = *req.CorrectAnswer
	}
	if req.Points != nil {
		fields["points"] = *req.Points
	}
	if req.TimeLimitSeconds != nil {
		fields["time_limit_seconds"] = *req.TimeLimitSeconds
	}

	question, err := h.svc.UpdateQuestion(ctx.Request.Context(), questionID, userID, fields)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, question)
}

// HandleDeleteQuestion godoc
// @Summary      Delete a question
// @Tags         questions
// @Produce      json
// @Param        questionID  path  int  true  "Question ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /questions/{questionID} [delete]
// @Security     BearerAuth
func (h *QuestionHandler) HandleDeleteQuestion(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteQuestion(ctx.Request.Context(), questionID, userID); err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleStartQuestion godoc
// @Summary      Open a question for answers
// @Description  Requires the owning round to be ongoing and no sibling question ongoing.
// @Tags         questions
// @Produce      json
// @Param        questionID  path      int  true  "Question ID"
// @Success      200         {object}  domain.Question
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      422         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID}/start [post]
// @Security     BearerAuth
func (h *QuestionHandler) HandleStartQuestion(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.StartQuestion)
}

// HandleCompleteQuestion godoc
// @Summary      Close a question
// @Tags         questions
// @Produce      json
// @Param        questionID  path      int  true  "Question ID"
// @Success      200         {object}  domain.Question
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      422         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID}/complete [post]
// @Security     BearerAuth
func (h *QuestionHandler) HandleCompleteQuestion(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.CompleteQuestion)
}

func (h *QuestionHandler) handleTransition(ctx *gin.Context, transition func(context.Context, uint, uint) (domain.Question, error)) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, err := transition(ctx.Request.Context(), questionID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, question)
}

// HandleAdvanceQuestion godoc
// @Summary      Advance to the next question
// @Description  Closes the ongoing question and opens the next pending one. The close stands even when nothing follows.
// @Tags         questions
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  service.QuestionAdvance
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID}/questions/advance [post]
// @Security     BearerAuth
func (h *QuestionHandler) HandleAdvanceQuestion(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	advance, err := h.svc.AdvanceQuestion(ctx.Request.Context(), roundID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, advance)
}

// HandleSuggestQuestions godoc
// @Summary      Suggest trivia questions for a topic
// @Description  Best effort; failures from the completion service surface as 502 and change nothing.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        request  body      request.SuggestQuestionsRequest true "request body"
// @Success      200      {array}   domain.SuggestedQuestion
// @Failure      400      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /questions/suggest [post]
// @Security     BearerAuth
func (h *QuestionHandler) HandleSuggestQuestions(ctx *gin.Context) {
	var req request.SuggestQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	suggestions, err := h.suggestSvc.Suggest(ctx.Request.Context(), req.Topic)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, suggestions)
}
