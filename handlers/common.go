package handlers

import (
	"net/http"

	"bookfair/middleware"
	"bookfair/models"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// actor returns the authenticated actor or writes a 401 and returns false.
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		utils.RespondError(c, models.NewError(models.CodeUnauthorized, "authentication required"))
		return models.Actor{}, false
	}
	return a, true
}

// bind decodes the JSON body into dst or writes a 400 and returns false.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return false
	}
	return true
}
