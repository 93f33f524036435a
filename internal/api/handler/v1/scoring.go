package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/trivia-live-api/internal/api/middleware"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

type ScoringService interface {
	SubmitResponse(ctx context.Context, response domain.Response) (domain.Response, error)
	ListResponses(ctx context.Context, questionID uint) (domain.ResponseBuckets, error)
	Grade(ctx context.Context, responseID, ownerID uint, isCorrect bool) (domain.Response, error)
	Leaderboard(ctx context.Context, eventID uint) ([]domain.Standing, error)
}

type ScoringHandler struct {
	svc ScoringService
}

func NewScoringHandler(svc ScoringService) *ScoringHandler {
	return &ScoringHandler{
		svc: svc,
	}
}

// HandleSubmitResponse godoc
// @Summary      Submit a team's answer
// @Description  One response per team per question; a second submission is rejected.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        questionID  path      int                           true  "Question ID"
// @Param        request     body      request.SubmitResponseRequest true  "request body"
// @Success      201         {object}  domain.Response
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID}/responses [post]
func (h *ScoringHandler) HandleSubmitResponse(ctx *gin.Context) {
	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.SubmitResponseRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	submitted, err := h.svc.SubmitResponse(ctx.Request.Context(), domain.Response{
		QuestionID:          questionID,
		TeamID:              req.TeamID,
		SubmittedAnswer:     req.SubmittedAnswer,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
	})
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, submitted)
}

// HandleListResponses godoc
// @Summary      List a question's responses bucketed by verdict
// @Tags         scoring
// @Produce      json
// @Param        questionID  path      int  true  "Question ID"
// @Success      200         {object}  domain.ResponseBuckets
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /questions/{questionID}/responses [get]
// @Security     BearerAuth
func (h *ScoringHandler) HandleListResponses(ctx *gin.Context) {
	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buckets, err := h.svc.ListResponses(ctx.Request.Context(), questionID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, buckets)
}

// HandleGradeResponse godoc
// @Summary      Grade a response
// @Description  Sets the verdict and awarded points. Re-grading overwrites the previous verdict; totals are recomputed, never incremented.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        responseID  path      int                  true  "Response ID"
// @Param        request     body      request.GradeRequest true  "request body"
// @Success      200         {object}  domain.Response
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /responses/{responseID}/grade [post]
// @Security     BearerAuth
func (h *ScoringHandler) HandleGradeResponse(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	responseID, err := parseIDParam(ctx, "responseID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.GradeRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	graded, err := h.svc.Grade(ctx.Request.Context(), responseID, userID, *req.IsCorrect)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, graded)
}

// HandleLeaderboard godoc
// @Summary      Get an event's leaderboard
// @Description  Only points from completed rounds count. Ties break by earlier registration.
// @Tags         scoring
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Standing
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/leaderboard [get]
func (h *ScoringHandler) HandleLeaderboard(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	standings, err := h.svc.Leaderboard(ctx.Request.Context(), eventID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, standings)
}
