package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/trivia-live-api/internal/api/middleware"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id, ownerID uint) (domain.Event, error)
	ListEvents(ctx context.Context, ownerID uint) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Event, error)
	DeleteEvent(ctx context.Context, id, ownerID uint) error
	StartEvent(ctx context.Context, id, actorID uint) (domain.Event, error)
	CompleteEvent(ctx context.Context, id, actorID uint) (domain.Event, error)
	JoinEvent(ctx context.Context, joinCode, teamName string) (domain.Team, error)
	ListTeams(ctx context.Context, eventID uint) ([]domain.Team, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a trivia event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	schedule, err := time.Parse(time.RFC3339, req.Schedule)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:      req.Name,
		Schedule:  schedule,
		CreatedBy: userID,
		UpdatedBy: userID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List the caller's events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
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

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event's details
// @Description  Name and schedule only. Status never changes through this endpoint.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "Event ID"
// @Param        request  body      request.UpdateEventRequest true  "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
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

	var req request.UpdateEventRequest
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
	if req.Schedule != nil {
		schedule, parseErr := time.Parse(time.RFC3339, *req.Schedule)
		if parseErr != nil {
			response.RenderErr(ctx, response.ErrBadRequest(parseErr))
			return
		}
		fields["schedule"] = schedule
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, userID, fields)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        eventID  path  int  true  "Event ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
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

	if err = h.svc.DeleteEvent(ctx.Request.Context(), eventID, userID); err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleStartEvent godoc
// @Summary      Start an event
// @Description  Moves the event from pending to ongoing.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/start [post]
// @Security     BearerAuth
func (h *EventHandler) HandleStartEvent(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.StartEvent)
}

// HandleCompleteEvent godoc
// @Summary      Complete an event
// @Description  Moves the event from ongoing to completed. Completed is terminal.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/complete [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCompleteEvent(ctx *gin.Context) {
	h.handleTransition(ctx, h.svc.CompleteEvent)
}

func (h *EventHandler) handleTransition(ctx *gin.Context, transition func(context.Context, uint, uint) (domain.Event, error)) {
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

	event, err := transition(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleJoinEvent godoc
// @Summary      Join an event as a team
// @Description  Registers a team on the event behind the join code. No authentication; the code is the credential.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.JoinEventRequest true "request body"
// @Success      201      {object}  domain.Team
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/join [post]
func (h *EventHandler) HandleJoinEvent(ctx *gin.Context) {
	var req request.JoinEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.JoinEvent(ctx.Request.Context(), req.JoinCode, req.TeamName)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, team)
}

// HandleListTeams godoc
// @Summary      List an event's teams
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Team
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/teams [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListTeams(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	teams, err := h.svc.ListTeams(ctx.Request.Context(), eventID)
	if err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, teams)
}
