package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/request"
	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/service"
)

type MoodService interface {
	Get(ctx context.Context, childRef string) (domain.Mood, error)
	Award(ctx context.Context, childRef, reason string, delta domain.MoodDelta) (domain.Mood, error)
}

type MoodUserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type MoodHandler struct {
	svc   MoodService
	users MoodUserRepository
}

func NewMoodHandler(svc MoodService, users MoodUserRepository) *MoodHandler {
	return &MoodHandler{
		svc:   svc,
		users: users,
	}
}

// HandleGetMood godoc
// @Summary      Read the six-axis mood, applying decay first
// @Tags         mood
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.Mood
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /mood [get]
func (h *MoodHandler) HandleGetMood(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	childRef, err := h.resolveChildRef(ctx, identity)
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound(err))
		return
	}

	mood, err := h.svc.Get(ctx.Request.Context(), childRef)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMood -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, mood)
}

// HandleAwardMood godoc
// @Summary      Apply a named or explicit mood delta
// @Tags         mood
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.AwardMoodRequest true "request body"
// @Success      200      {object}   domain.Mood
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /mood/award [post]
func (h *MoodHandler) HandleAwardMood(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	var req request.AwardMoodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var delta domain.MoodDelta
	if req.Delta != nil {
		delta = domain.MoodDelta{
			Love:    req.Delta.Love,
			Joy:     req.Delta.Joy,
			Calm:    req.Delta.Calm,
			Energy:  req.Delta.Energy,
			Sadness: req.Delta.Sadness,
			Anger:   req.Delta.Anger,
		}
	}

	mood, err := h.svc.Award(ctx.Request.Context(), identity.ID, req.Reason, delta)
	if err != nil {
		if errors.Is(err, service.ErrUnknownReason) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleAwardMood -> h.svc.Award -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, mood)
}

// resolveChildRef maps the caller to the child whose mood is read: a
// child reads its own, a parent reads the linked child's.
func (h *MoodHandler) resolveChildRef(ctx *gin.Context, identity domain.Identity) (string, error) {
	if identity.Role == domain.RoleChild {
		return identity.ID, nil
	}

	user, err := h.users.FindByID(ctx.Request.Context(), identity.ID)
	if err != nil {
		return "", err
	}
	if user.ChildID == "" {
		return "", errors.New("no child linked to this account")
	}

	return user.ChildID, nil
}
