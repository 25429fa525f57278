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
	"github.com/kidmood/kidmood-api/internal/repository"
)

type AvatarRepository interface {
	Get(ctx context.Context, childRef string) (domain.Avatar, error)
	Upsert(ctx context.Context, avatar domain.Avatar) (domain.Avatar, error)
}

type AvatarHandler struct {
	repo AvatarRepository
}

func NewAvatarHandler(repo AvatarRepository) *AvatarHandler {
	return &AvatarHandler{
		repo: repo,
	}
}

// HandleGetAvatar godoc
// @Summary      Read the calling child's avatar
// @Tags         avatar
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.Avatar
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /avatar [get]
func (h *AvatarHandler) HandleGetAvatar(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	avatar, err := h.repo.Get(ctx.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAvatarNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetAvatar -> h.repo.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, avatar)
}

// HandleUpsertAvatar godoc
// @Summary      Set the calling child's avatar
// @Tags         avatar
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.UpsertAvatarRequest true "request body"
// @Success      200      {object}   domain.Avatar
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /avatar [put]
func (h *AvatarHandler) HandleUpsertAvatar(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	var req request.UpsertAvatarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	avatar, err := h.repo.Upsert(ctx.Request.Context(), domain.Avatar{
		ChildRef: identity.ID,
		Emoji:    req.Emoji,
		Color:    req.Color,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpsertAvatar -> h.repo.Upsert -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, avatar)
}
