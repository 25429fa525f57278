package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/request"
	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/config"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/pkg/jwthelper"
	"github.com/kidmood/kidmood-api/internal/service"
)

type AuthService interface {
	SignupChild(ctx context.Context, name, classCode string) (domain.User, error)
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	CreatePin(ctx context.Context, childID string) (domain.Pin, error)
	ClaimPin(ctx context.Context, parentID, code string) (domain.User, error)
	ClaimLinkCode(ctx context.Context, parentID, code string) (domain.User, error)
}

type AuthHandler struct {
	conf    *config.APIConfig
	svc     AuthService
	limiter *service.RateLimiter
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, limiter *service.RateLimiter) *AuthHandler {
	return &AuthHandler{
		conf:    conf,
		svc:     svc,
		limiter: limiter,
	}
}

// HandleChildSignup godoc
// @Summary      Signup a child with a display name and class code
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ChildSignupRequest true "request body"
// @Success      201      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/child/signup [post]
func (h *AuthHandler) HandleChildSignup(ctx *gin.Context) {
	var req request.ChildSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.SignupChild(ctx.Request.Context(), req.Name, req.ClassCode)
	if err != nil {
		err = fmt.Errorf("v1.HandleChildSignup -> h.svc.SignupChild -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderToken(ctx, http.StatusCreated, user)
}

// HandleSignup godoc
// @Summary      Signup a parent or pro user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      req.Role,
		ClassCode: req.ClassCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderToken(ctx, http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login a parent or pro user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderToken(ctx, http.StatusOK, user)
}

// HandleCreatePin godoc
// @Summary      Mint a single-use pin for parent linking
// @Tags         link
// @Produce      json
// @Security     BearerAuth
// @Success      201      {object}   response.PinResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /link/pin [post]
func (h *AuthHandler) HandleCreatePin(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	pin, err := h.svc.CreatePin(ctx.Request.Context(), identity.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePin -> h.svc.CreatePin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.PinResponse{
		Pin:       pin.Pin,
		ExpiresAt: pin.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// HandleClaimPin godoc
// @Summary      Claim a child pin and link the calling parent
// @Tags         link
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.ClaimPinRequest true "request body"
// @Success      200      {object}   response.LinkResponse
// @Failure      400      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Router       /link/claim [post]
func (h *AuthHandler) HandleClaimPin(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	if !h.limiter.Allow(identity.ID) {
		response.RenderErr(ctx, response.ErrTooManyRequests("too many pin attempts, try again later"))
		return
	}

	var req request.ClaimPinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	parent, err := h.svc.ClaimPin(ctx.Request.Context(), identity.ID, req.Pin)
	if err != nil {
		if errors.Is(err, service.ErrPinNotFound) || errors.Is(err, service.ErrPinExpired) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleClaimPin -> h.svc.ClaimPin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LinkResponse{
		Message: "linked",
		ChildID: parent.ChildID,
	})
}

// HandleClaimLinkCode godoc
// @Summary      Link the calling parent via a permanent link code
// @Tags         link
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.ClaimLinkCodeRequest true "request body"
// @Success      200      {object}   response.LinkResponse
// @Failure      400      {object}   response.Err
// @Router       /link/code [post]
func (h *AuthHandler) HandleClaimLinkCode(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	var req request.ClaimLinkCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	parent, err := h.svc.ClaimLinkCode(ctx.Request.Context(), identity.ID, req.LinkCode)
	if err != nil {
		if errors.Is(err, service.ErrLinkCodeUnknown) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleClaimLinkCode -> h.svc.ClaimLinkCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LinkResponse{
		Message: "linked",
		ChildID: parent.ChildID,
	})
}

func (h *AuthHandler) renderToken(ctx *gin.Context, status int, user domain.User) {
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), domain.Identity{
		ID:    user.ID,
		Role:  user.Role,
		Email: user.Email,
	})
	if err != nil {
		err = fmt.Errorf("v1.renderToken -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(status, response.LoginResponse{
		Token: token,
		User:  user,
	})
}
