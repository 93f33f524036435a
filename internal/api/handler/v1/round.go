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

type RoundService interface {
	CreateRound(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error)
	GetRound(ctx context.Context, id uint) (domain.Round, error)
	ListRounds(ctx context.Context, eventID uint) ([]domain.Round, error)
	UpdateRound(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error)
	DeleteRound(ctx context.Context, id, ownerID uint) error
	StartRound(ctx context.Context, id, ownerID uint) (domain.Round, error)
	CompleteRound(ctx context.Context, id, ownerID uint) (domain.Round, error)
	AdvanceRound(ctx context.Context, eventID, ownerID uint) (service.RoundAdvance, error)
}

type RoundHandler struct {
	svc RoundService
}

func NewRoundHandler(svc RoundService) *RoundHandler {
	return &RoundHandler{
		svc: svc,
	}
}

// HandleCreateRound godoc
// @Summary      Create a round
// @Description  The round is appended to the event with the next sequence number.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "Event ID"
// @Param        request  body      request.CreateRoundRequest true  "request body"
// @Success      201      {object}  domain.Round
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/rounds [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleCreateRound(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.CreateRoundRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	round, err := h.svc.CreateRound(ctx.Request.Context(), domain.Round{
		EventID:          eventID,
		Name:             req.Name,
		Description:      req.Description,
		TimeLimitSeconds: req.TimeLimitSeconds,
	}, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, round)
}

// HandleListRounds godoc
// @Summary      List an event's rounds in sequence order
// @Tags         rounds
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Round
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/rounds [get]
// @Security     BearerAuth
func (h *RoundHandler) HandleListRounds(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rounds, err := h.svc.ListRounds(ctx.Request.Context(), eventID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, rounds)
}

// HandleGetRound godoc
// @Summary      Get one round
// @Tags         rounds
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  domain.Round
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID} [get]
// @Security     BearerAuth
func (h *RoundHandler) HandleGetRound(ctx *gin.Context) {
	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	round, err := h.svc.GetRound(ctx.Request.Context(), roundID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, round)
}

// HandleUpdateRound godoc
// @Summary      Update a round's details
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        roundID  path      int                        true  "Round ID"
// @Param        request  body      request.UpdateRoundRequest true  "request body"
// @Success      200      {object}  domain.Round
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID} [patch]
// @Security     BearerAuth
func (h *RoundHandler) HandleUpdateRound(ctx *gin.Context) {
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

	var req request.UpdateRoundRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TimeLimitSeconds != nil {
		fields["time_limit_seconds"] = *req.TimeLimitSeconds
	}

	round, err := h.svc.UpdateRound(ctx.Request.Context(), roundID, userID, fields)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, round)
}

// HandleDeleteRound godoc
// @Summary      Delete a round
// @Description  Deleting is idempotent; a second delete succeeds with no effect.
// @Tags         rounds
// @Produce      json
// @Param        roundID  path  int  true  "Round ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rounds/{roundID} [delete]
// @Security     BearerAuth
func (h *RoundHandler) HandleDeleteRound(ctx *gin.Context) {
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

	if err = h.svc.DeleteRound(ctx.Request.Context(), roundID, userID); err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleStartRound godoc
// @Summary      Start a round
// @Description  Requires the owning event to be ongoing and no sibling round ongoing.
// @Tags         rounds
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  domain.Round
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID}/start [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleStartRound(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.StartRound)
}

// HandleCompleteRound godoc
// @Summary      Complete a round
// @Description  Completing a round commits its graded points to the leaderboard.
// @Tags         rounds
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  domain.Round
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rounds/{roundID}/complete [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleCompleteRound(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.CompleteRound)
}

func (h *RoundHandler) handleTransition(ctx *gin.Context, transition func(context.Context, uint, uint) (domain.Round, error)) {
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

	round, err := transition(ctx.Request.Context(), roundID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, round)
}

// HandleAdvanceRound godoc
// @Summary      Advance to the next round
// @Description  Completes the ongoing round and starts the next pending one. The completion stands even when nothing follows.
// @Tags         rounds
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  service.RoundAdvance
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/rounds/advance [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleAdvanceRound(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	advance, err := h.svc.AdvanceRound(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, advance)
}
