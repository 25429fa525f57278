package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/domain"
)

// IdentityKey is where the authenticator middleware stores the verified
// caller.
const IdentityKey = "identity"

func identityFromContext(ctx *gin.Context) (domain.Identity, bool) {
	value, exists := ctx.Get(IdentityKey)
	if !exists {
		response.RenderErr(ctx, response.ErrUnauthorized("missing identity"))

		return domain.Identity{}, false
	}

	identity, ok := value.(domain.Identity)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("malformed identity"))

		return domain.Identity{}, false
	}

	return identity, true
}

// dateRangeFromQuery parses optional from/to query params, accepting
// either a bare date or a full timestamp. Zero times mean "use the
// default trailing window".
func dateRangeFromQuery(ctx *gin.Context) (time.Time, time.Time, error) {
	from, err := parseDateParam(ctx.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := parseDateParam(ctx.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return from, to, nil
}

func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, value)
}
