package middleware

import (
	"net/http"

	"bookfair/models"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for actors with one of roles.
// It must run after BearerAuth.
func RequireRole(roles ...models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, models.CodeForbidden, "Insufficient role for this resource")
	}
}
