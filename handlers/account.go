package handlers

import (
	"net/http"

	"bookfair/models"
	"bookfair/services/account"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves sign-up, login, profile and genre endpoints.
type AccountHandler struct {
	Accounts account.AccountService
}

func NewAccountHandler(svc account.AccountService) *AccountHandler {
	return &AccountHandler{Accounts: svc}
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) RegisterVendor(c *gin.Context) {
	var req models.VendorRegistration
	if !bind(c, &req) {
		return
	}
	vendor, auth, err := h.Accounts.RegisterVendor(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vendor": vendor, "token": auth.Token})
}

func (h *AccountHandler) LoginVendor(c *gin.Context) {
	var input loginInput
	if !bind(c, &input) {
		return
	}
	vendor, auth, err := h.Accounts.AuthenticateVendor(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor, "token": auth.Token})
}

type staffRegistrationInput struct {
	models.StaffRegistration
	RegistrationKey string `json:"registration_key"`
}

func (h *AccountHandler) RegisterStaff(c *gin.Context) {
	var input staffRegistrationInput
	if !bind(c, &input) {
		return
	}
	staff, auth, err := h.Accounts.RegisterStaff(c.Request.Context(), input.StaffRegistration, input.RegistrationKey)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"staff": staff, "token": auth.Token})
}

func (h *AccountHandler) LoginStaff(c *gin.Context) {
	var input loginInput
	if !bind(c, &input) {
		return
	}
	staff, auth, err := h.Accounts.AuthenticateStaff(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff, "token": auth.Token})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	vendor, err := h.Accounts.GetVendor(c.Request.Context(), a.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var update models.VendorProfileUpdate
	if !bind(c, &update) {
		return
	}
	vendor, err := h.Accounts.UpdateProfile(c.Request.Context(), a.ID, update)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input changePasswordInput
	if !bind(c, &input) {
		return
	}
	if err := h.Accounts.ChangePassword(c.Request.Context(), a.ID, input.CurrentPassword, input.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AccountHandler) ListGenres(c *gin.Context) {
	genres, err := h.Accounts.ListGenres(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *AccountHandler) MyGenres(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	genres, err := h.Accounts.VendorGenres(c.Request.Context(), a.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

type setGenresInput struct {
	GenreIDs []string `json:"genre_ids"`
}

func (h *AccountHandler) SetGenres(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input setGenresInput
	if !bind(c, &input) {
		return
	}
	genres, err := h.Accounts.SetGenres(c.Request.Context(), a.ID, input.GenreIDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *AccountHandler) AddGenre(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	genres, err := h.Accounts.AddGenre(c.Request.Context(), a.ID, c.Param("genreID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *AccountHandler) RemoveGenre(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	genres, err := h.Accounts.RemoveGenre(c.Request.Context(), a.ID, c.Param("genreID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *AccountHandler) GetGenre(c *gin.Context) {
	genre, err := h.Accounts.GetGenre(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// CreateGenre adds a genre to the catalog. Staff only.
func (h *AccountHandler) CreateGenre(c *gin.Context) {
	var input models.Genre
	if !bind(c, &input) {
		return
	}
	genre, err := h.Accounts.CreateGenre(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// StaffProfile returns the signed-in staff account.
func (h *AccountHandler) StaffProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	staff, err := h.Accounts.GetStaff(c.Request.Context(), a.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}
