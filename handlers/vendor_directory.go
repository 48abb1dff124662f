package handlers

import (
	"net/http"

	"bookfair/models"
	"bookfair/services/account"
	"bookfair/services/allocation"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// VendorDirectoryHandler lets staff browse vendor accounts.
type VendorDirectoryHandler struct {
	Accounts account.AccountService
	Engine   *allocation.Engine
}

func NewVendorDirectoryHandler(accounts account.AccountService, engine *allocation.Engine) *VendorDirectoryHandler {
	return &VendorDirectoryHandler{Accounts: accounts, Engine: engine}
}

type vendorSummary struct {
	models.Vendor
	ConfirmedReservations int `json:"confirmed_reservations"`
}

type vendorDetail struct {
	models.Vendor
	Genres       []models.Genre        `json:"genres"`
	Reservations []reservationResponse `json:"reservations"`
}

// ListVendors returns every vendor with its confirmed reservation count.
func (h *VendorDirectoryHandler) ListVendors(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	vendors, err := h.Accounts.ListVendors(ctx)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	confirmed, err := h.Engine.ListByStatus(ctx, a, models.StatusConfirmed)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	counts := make(map[string]int, len(vendors))
	for _, r := range confirmed {
		counts[r.VendorID]++
	}

	out := make([]vendorSummary, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, vendorSummary{Vendor: v, ConfirmedReservations: counts[v.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"vendors": out})
}

// GetVendorDetail returns one vendor with its genres and reservations.
func (h *VendorDirectoryHandler) GetVendorDetail(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	vendor, err := h.Accounts.GetVendor(ctx, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	genres, err := h.Accounts.VendorGenres(ctx, vendor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	rs, err := h.Engine.ListForVendor(ctx, a, vendor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendorDetail{Vendor: *vendor, Genres: genres, Reservations: presentAll(rs)})
}
