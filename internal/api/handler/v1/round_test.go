package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/trivia-live-api/internal/api/middleware"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/service"
)

type stubRoundService struct {
	round      domain.Round
	advance    service.RoundAdvance
	err        error
	advanceErr error
}

func (s *stubRoundService) CreateRound(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error) {
	return s.round, s.err
}

func (s *stubRoundService) GetRound(ctx context.Context, id uint) (domain.Round, error) {
	return s.round, s.err
}

func (s *stubRoundService) ListRounds(ctx context.Context, eventID uint) ([]domain.Round, error) {
	return []domain.Round{s.round}, s.err
}

func (s *stubRoundService) UpdateRound(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error) {
	return s.round, s.err
}

func (s *stubRoundService) DeleteRound(ctx context.Context, id, ownerID uint) error {
	return s.err
}

func (s *stubRoundService) StartRound(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	return s.round, s.err
}

func (s *stubRoundService) CompleteRound(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	return s.round, s.err
}

func (s *stubRoundService) AdvanceRound(ctx context.Context, eventID, ownerID uint) (service.RoundAdvance, error) {
	return s.advance, s.advanceErr
}

func newRoundRouter(svc RoundService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(1))
	})
	handler := NewRoundHandler(svc)
	router.POST("/rounds/:roundID/start", handler.HandleStartRound)
	router.POST("/events/:eventID/rounds/advance", handler.HandleAdvanceRound)
	router.DELETE("/rounds/:roundID", handler.HandleDeleteRound)

	return router
}

func TestHandleStartRoundStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"not found", &domain.NotFoundError{Entity: "round", ID: 1}, http.StatusNotFound},
		{
			"illegal transition",
			&domain.InvalidTransitionError{Entity: "round", From: domain.StatusCompleted, To: domain.StatusOngoing},
			http.StatusUnprocessableEntity,
		},
		{
			"gated by parent",
			&domain.InvalidTransitionError{
				Entity: "round",
				From:   domain.StatusPending,
				To:     domain.StatusOngoing,
				Reason: "owning event is not ongoing",
			},
			http.StatusUnprocessableEntity,
		},
		{
			"sibling already ongoing",
			&domain.ConflictError{Entity: "round", Reason: "another round in this event is already ongoing"},
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRoundRouter(&stubRoundService{
				round: domain.Round{ID: 1, Status: domain.StatusOngoing},
				err:   tt.err,
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/rounds/1/start", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleStartRoundRejectsBadID(t *testing.T) {
	router := newRoundRouter(&stubRoundService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rounds/abc/start", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAdvanceRound(t *testing.T) {
	t.Run("terminal advance returns 200 with advanced false", func(t *testing.T) {
		router := newRoundRouter(&stubRoundService{
			advance: service.RoundAdvance{
				Completed: domain.Round{ID: 3, Status: domain.StatusCompleted},
				Advanced:  false,
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events/1/rounds/advance", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body service.RoundAdvance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Advanced)
		assert.Nil(t, body.Activated)
		assert.Equal(t, uint(3), body.Completed.ID)
	})

	t.Run("no ongoing round returns 409", func(t *testing.T) {
		router := newRoundRouter(&stubRoundService{
			advanceErr: &domain.ConflictError{Entity: "round", Reason: "no round is ongoing in this event"},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events/1/rounds/advance", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleDeleteRound(t *testing.T) {
	router := newRoundRouter(&stubRoundService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/rounds/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRoundMutationsRequireAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewRoundHandler(&stubRoundService{})
	router.POST("/rounds/:roundID/start", handler.HandleStartRound)
	router.DELETE("/rounds/:roundID", handler.HandleDeleteRound)

	for _, tt := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/rounds/1/start"},
		{http.MethodDelete, "/rounds/1"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
	}
}
