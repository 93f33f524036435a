package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
}

func (e *Err) Error() string {
	return e.Msg
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.Int("status", err.StatusCode),
			zap.String("error", err.Msg),
			zap.String("path", ctx.FullPath()))
	}

	ctx.JSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{StatusCode: http.StatusBadRequest, Msg: err.Error()}
}

func ErrUnauthorized() *Err {
	return &Err{StatusCode: http.StatusUnauthorized, Msg: "authentication required"}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{StatusCode: http.StatusUnauthorized, Msg: err.Error()}
}

func ErrNotFound(err error) *Err {
	return &Err{StatusCode: http.StatusNotFound, Msg: err.Error()}
}

func ErrConflict(err error) *Err {
	return &Err{StatusCode: http.StatusConflict, Msg: err.Error()}
}

func ErrUnprocessable(err error) *Err {
	return &Err{StatusCode: http.StatusUnprocessableEntity, Msg: err.Error()}
}

func ErrBadGateway(err error) *Err {
	return &Err{StatusCode: http.StatusBadGateway, Msg: err.Error()}
}

func ErrInternalServerError(err error) *Err {
	return &Err{StatusCode: http.StatusInternalServerError, Msg: err.Error()}
}

// RenderDomainErr maps the typed error taxonomy onto HTTP statuses. A
// failed transition or grade renders an error and changes nothing; the
// client keeps whatever state it already displayed.
func RenderDomainErr(ctx *gin.Context, err error) {
	var (
		notFound *domain.NotFoundError
		invalid  *domain.InvalidTransitionError
		conflict *domain.ConflictError
		persist  *domain.PersistenceError
		external *domain.ExternalServiceError
	)

	switch {
	case errors.As(err, &notFound):
		RenderErr(ctx, ErrNotFound(notFound))
	case errors.As(err, &invalid):
		RenderErr(ctx, ErrUnprocessable(invalid))
	case errors.As(err, &conflict):
		RenderErr(ctx, ErrConflict(conflict))
	case errors.As(err, &persist):
		RenderErr(ctx, ErrConflict(persist))
	case errors.As(err, &external):
		RenderErr(ctx, ErrBadGateway(external))
	default:
		RenderErr(ctx, ErrInternalServerError(err))
	}
}
