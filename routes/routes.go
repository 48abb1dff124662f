package routes

import (
	"time"

	"bookfair/handlers"
	"bookfair/middleware"
	"bookfair/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up and login endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/vendors/register", hb.Accounts.RegisterVendor)
		auth.POST("/vendors/login", hb.Accounts.LoginVendor)
		auth.POST("/staff/register", hb.Accounts.RegisterStaff)
		auth.POST("/staff/login", hb.Accounts.LoginStaff)
		auth.GET("/vendors/me", middleware.BearerAuth(hb.Tokens), middleware.RequireRole(models.RoleVendor), hb.Accounts.GetProfile)
		auth.GET("/staff/me", middleware.BearerAuth(hb.Tokens), middleware.RequireRole(models.RoleStaff), hb.Accounts.StaffProfile)
	}
}

// RegisterStallRoutes registers the public catalog endpoints.
func RegisterStallRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	stalls := api.Group("/stalls")
	{
		stalls.GET("", hb.Stalls.ListStalls)
		stalls.GET("/stats", hb.Stalls.StallStats)
		stalls.GET("/size/:size", hb.Stalls.ListStallsBySize)
		stalls.GET("/:id", hb.Stalls.GetStall)
	}
	api.GET("/genres", hb.Accounts.ListGenres)
	api.GET("/genres/:id", hb.Accounts.GetGenre)
}

// RegisterVendorRoutes registers the vendor's own profile endpoints.
func RegisterVendorRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	me := api.Group("/vendors/me")
	{
		me.Use(middleware.BearerAuth(hb.Tokens), middleware.RequireRole(models.RoleVendor))
		me.GET("", hb.Accounts.GetProfile)
		me.PUT("", hb.Accounts.UpdateProfile)
		me.POST("/password", hb.Accounts.ChangePassword)
		me.GET("/genres", hb.Accounts.MyGenres)
		me.PUT("/genres", hb.Accounts.SetGenres)
		me.POST("/genres/:genreID", hb.Accounts.AddGenre)
		me.DELETE("/genres/:genreID", hb.Accounts.RemoveGenre)
	}
}

// RegisterReservationRoutes registers endpoints open to any signed-in actor.
func RegisterReservationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reservations := api.Group("/reservations")
	{
		reservations.Use(middleware.BearerAuth(hb.Tokens))
		reservations.POST("", hb.Reservations.RequestReservation)
		reservations.GET("", hb.Reservations.ListMyReservations)
		reservations.GET("/:id", hb.Reservations.GetReservation)
		reservations.GET("/:id/qr", hb.Credentials.ReservationQR)
		reservations.POST("/:id/cancel", hb.Reservations.CancelReservation)
	}
}

// RegisterStaffRoutes registers organiser endpoints.
func RegisterStaffRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	staff := api.Group("/staff")
	{
		staff.Use(middleware.BearerAuth(hb.Tokens), middleware.RequireRole(models.RoleStaff))
		staff.GET("/reservations", hb.Reservations.ListReservations)
		staff.GET("/reservations/stats", hb.Analytics.ReservationStats)
		staff.POST("/reservations/:id/approve", hb.Reservations.ApproveReservation)
		staff.POST("/reservations/:id/reject", hb.Reservations.RejectReservation)
		staff.POST("/reservations/:id/cancel", hb.Reservations.CancelReservation)
		staff.POST("/reservations/:id/revoke-credential", hb.Credentials.RevokeCredential)
		staff.GET("/vendors", hb.Vendors.ListVendors)
		staff.GET("/vendors/:id", hb.Vendors.GetVendorDetail)
		staff.POST("/genres", hb.Accounts.CreateGenre)
		staff.POST("/stalls", hb.Stalls.CreateStall)
		staff.PUT("/stalls/:id", hb.Stalls.UpdateStall)
		staff.GET("/analytics/occupancy", hb.Analytics.Occupancy)
		staff.GET("/analytics/revenue", hb.Analytics.Revenue)
		staff.GET("/dashboard", hb.Analytics.Dashboard)
	}

	credentials := api.Group("/credentials")
	{
		credentials.Use(middleware.BearerAuth(hb.Tokens), middleware.RequireRole(models.RoleStaff))
		credentials.POST("/verify", hb.Credentials.VerifyCredential)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/health", hb.Health.Health)
	RegisterAuthRoutes(api, hb)
	RegisterStallRoutes(api, hb)
	RegisterVendorRoutes(api, hb)
	RegisterReservationRoutes(api, hb)
	RegisterStaffRoutes(api, hb)
}
