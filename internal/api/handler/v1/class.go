package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
)

type ClassDirectoryRepository interface {
	GetDefaultOrg(ctx context.Context) (domain.Org, error)
	DeleteClass(ctx context.Context, orgID, code string) error
}

type ClassHandler struct {
	directory ClassDirectoryRepository
}

func NewClassHandler(directory ClassDirectoryRepository) *ClassHandler {
	return &ClassHandler{
		directory: directory,
	}
}

// HandleDeleteClass godoc
// @Summary      Tear a class down, cascading to students and check-ins
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        code   path      string true "class code"
// @Success      204
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /classes/{code} [delete]
func (h *ClassHandler) HandleDeleteClass(ctx *gin.Context) {
	if _, ok := identityFromContext(ctx); !ok {
		return
	}

	org, err := h.directory.GetDefaultOrg(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleDeleteClass -> h.directory.GetDefaultOrg -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if err = h.directory.DeleteClass(ctx.Request.Context(), org.ID, ctx.Param("code")); err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteClass -> h.directory.DeleteClass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
