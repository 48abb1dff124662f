package middleware

import (
	"net/http"
	"strings"

	"bookfair/models"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// BearerAuth resolves the Authorization bearer token to an Actor and stores
// it on the gin context.
func BearerAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, models.CodeUnauthorized, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		actor, err := tokens.ParseActor(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid token")
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the Actor set by BearerAuth.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// SetActor stores actor on c. Used by tests that bypass token parsing.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Message: message, Code: code})
}
