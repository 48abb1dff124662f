package handlers

import (
	"net/http"

	"bookfair/services/allocation"
	"bookfair/services/credential"
	"bookfair/services/inventory"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// CredentialHandler serves admission badges and checks credentials at the gate.
type CredentialHandler struct {
	Issuer    *credential.Issuer
	Engine    *allocation.Engine
	Inventory *inventory.Service
}

func NewCredentialHandler(issuer *credential.Issuer, engine *allocation.Engine, inv *inventory.Service) *CredentialHandler {
	return &CredentialHandler{Issuer: issuer, Engine: engine, Inventory: inv}
}

type verifyInput struct {
	Token string `json:"token" binding:"required"`
}

func (h *CredentialHandler) VerifyCredential(c *gin.Context) {
	var input verifyInput
	if !bind(c, &input) {
		return
	}
	r, err := h.Issuer.Verify(c.Request.Context(), input.Token)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "reservation": present(r)})
}

// ReservationQR returns the QR badge of a confirmed reservation to its
// vendor or to staff.
func (h *CredentialHandler) ReservationQR(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	r, err := h.Engine.Get(ctx, a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	stallName := r.StallID
	if stall, err := h.Inventory.Get(ctx, r.StallID); err == nil {
		stallName = stall.Name
	}
	badge, err := h.Issuer.Badge(*r, stallName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, badge)
}

// RevokeCredential invalidates a badge while the reservation stays confirmed.
// Staff only.
func (h *CredentialHandler) RevokeCredential(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.Issuer.Revoke(ctx, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	r, err := h.Engine.Get(ctx, a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(r))
}
