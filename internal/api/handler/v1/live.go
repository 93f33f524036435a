package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vietanh2810/trivia-live-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type LiveEventService interface {
	GetEventByID(ctx context.Context, id uint) (domain.Event, error)
}

type LiveHandler struct {
	hub *realtime.Hub
	svc LiveEventService
}

func NewLiveHandler(hub *realtime.Hub, svc LiveEventService) *LiveHandler {
	return &LiveHandler{
		hub: hub,
		svc: svc,
	}
}

// HandleLive godoc
// @Summary      Subscribe to an event's change feed
// @Description  Upgrades to a websocket. Messages are content-free change markers; clients re-fetch state over REST.
// @Tags         live
// @Param        eventID  path  int  true  "Event ID"
// @Success      101
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/live [get]
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if _, err = h.svc.GetEventByID(ctx.Request.Context(), eventID); err != nil {
		response.RenderDomainErr(ctx, err)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.hub.RegisterClient(conn, eventID)
}
