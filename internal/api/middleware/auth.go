package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/kidmood/kidmood-api/internal/api/handler/v1"
	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/pkg/jwthelper"
)

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT authenticates the bearer token and stores the identity on
// the request context. Everything fails closed: no header, bad scheme,
// bad signature, or expired token all end the request with 401.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.RenderErr(ctx, response.ErrUnauthorized("malformed authorization header"))
			return
		}

		identity, err := jwthelper.VerifyToken([]byte(a.signingKey), parts[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))
			return
		}

		ctx.Set(v1.IdentityKey, identity)
		ctx.Next()
	}
}

// RequireRoles gates a route group on the token's role claim. This is a
// capability gate only; scope ownership is the scope resolver's job.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(ctx *gin.Context) {
		identity, ok := identityFrom(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("missing identity"))
			return
		}

		if _, ok = allowed[identity.Role]; !ok {
			response.RenderErr(ctx, response.ErrForbidden("role not allowed for this operation"))
			return
		}

		ctx.Next()
	}
}
