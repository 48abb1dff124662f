package handlers

import (
	"bookfair/utils"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Tokens *utils.TokenManager

	Accounts     *AccountHandler
	Stalls       *StallHandler
	Reservations *ReservationHandler
	Analytics    *AnalyticsHandler
	Credentials  *CredentialHandler
	Vendors      *VendorDirectoryHandler
	Health       *HealthHandler
}
