package handlers

import (
	"net/http"

	"bookfair/models"
	"bookfair/services/allocation"
	"bookfair/services/credential"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes the allocation engine.
type ReservationHandler struct {
	Engine *allocation.Engine
}

func NewReservationHandler(engine *allocation.Engine) *ReservationHandler {
	return &ReservationHandler{Engine: engine}
}

// reservationResponse adds the printable entry code to confirmed reservations.
type reservationResponse struct {
	models.Reservation
	EntryCode string `json:"entry_code,omitempty"`
}

func present(r *models.Reservation) reservationResponse {
	out := reservationResponse{Reservation: *r}
	if r.Status == models.StatusConfirmed && !r.CredentialRevoked {
		out.EntryCode = credential.DisplayCode(r.CredentialToken)
	}
	return out
}

func presentAll(rs []models.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(rs))
	for i := range rs {
		out = append(out, present(&rs[i]))
	}
	return out
}

type requestReservationInput struct {
	StallID  string `json:"stallId" binding:"required"`
	Note     string `json:"note"`
	VendorID string `json:"vendorId"`
}

// RequestReservation creates a pending reservation.
func (h *ReservationHandler) RequestReservation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input requestReservationInput
	if !bind(c, &input) {
		return
	}
	r, err := h.Engine.Request(c.Request.Context(), a, input.VendorID, input.StallID, input.Note)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, present(r))
}

// ListMyReservations returns the caller's reservations. Staff own none, so
// they get every reservation.
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var (
		rs  []models.Reservation
		err error
	)
	if a.IsStaff() {
		rs, err = h.Engine.ListAll(c.Request.Context(), a)
	} else {
		rs, err = h.Engine.ListForVendor(c.Request.Context(), a, a.ID)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": presentAll(rs)})
}

// GetReservation returns one reservation the caller may see.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	r, err := h.Engine.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(r))
}

// CancelReservation cancels as the owning vendor or as staff.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	r, err := h.Engine.Cancel(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(r))
}

// ListReservations lists all reservations, optionally filtered by ?status=.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var (
		rs  []models.Reservation
		err error
	)
	if raw := c.Query("status"); raw != "" {
		status, perr := models.ParseReservationStatus(raw)
		if perr != nil {
			utils.RespondError(c, perr)
			return
		}
		rs, err = h.Engine.ListByStatus(c.Request.Context(), a, status)
	} else {
		rs, err = h.Engine.ListAll(c.Request.Context(), a)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": presentAll(rs)})
}

// ApproveReservation confirms a pending reservation.
func (h *ReservationHandler) ApproveReservation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	r, err := h.Engine.Approve(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(r))
}

type rejectInput struct {
	Reason string `json:"reason"`
}

// RejectReservation rejects a pending reservation. The body is optional.
func (h *ReservationHandler) RejectReservation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input rejectInput
	if c.Request.ContentLength != 0 && !bind(c, &input) {
		return
	}
	r, err := h.Engine.Reject(c.Request.Context(), a, c.Param("id"), input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(r))
}
