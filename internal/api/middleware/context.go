package middleware

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/kidmood/kidmood-api/internal/api/handler/v1"
	"github.com/kidmood/kidmood-api/internal/domain"
)

func identityFrom(ctx *gin.Context) (domain.Identity, bool) {
	value, exists := ctx.Get(v1.IdentityKey)
	if !exists {
		return domain.Identity{}, false
	}

	identity, ok := value.(domain.Identity)

	return identity, ok
}
