package handlers

import (
	"net/http"

	"bookfair/models"
	"bookfair/services/inventory"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// StallHandler serves the stall catalog.
type StallHandler struct {
	Inventory *inventory.Service
}

func NewStallHandler(svc *inventory.Service) *StallHandler {
	return &StallHandler{Inventory: svc}
}

func (h *StallHandler) ListStalls(c *gin.Context) {
	stalls, err := h.Inventory.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stalls": stalls})
}

func (h *StallHandler) GetStall(c *gin.Context) {
	stall, err := h.Inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stall)
}

func (h *StallHandler) ListStallsBySize(c *gin.Context) {
	stalls, err := h.Inventory.ListBySize(c.Request.Context(), c.Param("size"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stalls": stalls})
}

func (h *StallHandler) StallStats(c *gin.Context) {
	stats, err := h.Inventory.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateStall adds a stall to the catalog. Staff only.
func (h *StallHandler) CreateStall(c *gin.Context) {
	var input models.Stall
	if !bind(c, &input) {
		return
	}
	stall, err := h.Inventory.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stall)
}

// UpdateStall patches a stall's catalog attributes. Staff only.
func (h *StallHandler) UpdateStall(c *gin.Context) {
	var patch models.StallUpdate
	if !bind(c, &patch) {
		return
	}
	stall, err := h.Inventory.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stall)
}
