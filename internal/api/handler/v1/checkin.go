package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/request"
	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/service"
)

type CheckinService interface {
	Create(ctx context.Context, identity domain.Identity, input service.CreateCheckinInput) (domain.Checkin, error)
	List(ctx context.Context, identity domain.Identity, from, to time.Time) ([]domain.Checkin, error)
}

type CheckinHandler struct {
	svc CheckinService
}

func NewCheckinHandler(svc CheckinService) *CheckinHandler {
	return &CheckinHandler{
		svc: svc,
	}
}

// HandleCreateCheckin godoc
// @Summary      Log one emotional check-in for the calling child
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.CreateCheckinRequest true "request body"
// @Success      201      {object}   domain.Checkin
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /checkins [post]
func (h *CheckinHandler) HandleCreateCheckin(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	var req request.CreateCheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var date time.Time
	if req.DateISO != "" {
		date, _ = time.Parse(time.RFC3339, req.DateISO)
	}

	checkin, err := h.svc.Create(ctx.Request.Context(), identity, service.CreateCheckinInput{
		Emotion:    req.Emotion,
		Mode:       req.Mode,
		Note:       req.Note,
		DrawingRef: req.DrawingRef,
		ClientID:   req.ClientID,
		Date:       date,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmotion) || errors.Is(err, service.ErrInvalidMode) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, service.ErrNoClassScope) {
			response.RenderErr(ctx, response.ErrForbidden(err.Error()))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCheckin -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, checkin)
}

// HandleListCheckins godoc
// @Summary      List the caller's scoped check-ins
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Param        from   query     string false "start date (YYYY-MM-DD or RFC3339)"
// @Param        to     query     string false "end date (YYYY-MM-DD or RFC3339)"
// @Success      200    {array}   domain.Checkin
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Router       /checkins [get]
func (h *CheckinHandler) HandleListCheckins(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	from, to, err := dateRangeFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	checkins, err := h.svc.List(ctx.Request.Context(), identity, from, to)
	if err != nil {
		err = fmt.Errorf("v1.HandleListCheckins -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, checkins)
}
