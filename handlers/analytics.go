package handlers

import (
	"net/http"

	"bookfair/services/analytics"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the staff reports.
type AnalyticsHandler struct {
	Analytics *analytics.Aggregator
}

func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: agg}
}

func (h *AnalyticsHandler) Occupancy(c *gin.Context) {
	occ, err := h.Analytics.OccupancyBySize(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupancy_by_size": occ})
}

func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	rev, err := h.Analytics.RevenueBySize(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	d, err := h.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *AnalyticsHandler) ReservationStats(c *gin.Context) {
	stats, err := h.Analytics.ReservationStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
