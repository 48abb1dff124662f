package handlers

import (
	"net/http"

	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health snapshot of the backing services.
type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := h.Monitor.Status()
	healthy := true
	for _, up := range status.Services {
		healthy = healthy && up
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "services": status.Services, "checkedAt": status.CheckedAt})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "services": status.Services, "checkedAt": status.CheckedAt})
}
