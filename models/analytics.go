package models

// SizeOccupancy is the occupancy of one size category. Reserved counts stalls
// held by an active reservation (pending or confirmed).
type SizeOccupancy struct {
	Total         int     `json:"total"`
	Reserved      int     `json:"reserved"`
	Pending       int     `json:"pending"`
	Confirmed     int     `json:"confirmed"`
	Available     int     `json:"available"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// RevenueReport sums stall prices of confirmed reservations.
type RevenueReport struct {
	BySize map[StallSize]float64 `json:"revenue_by_size"`
	Total  float64               `json:"total_revenue"`
}

// Dashboard is the staff overview.
type Dashboard struct {
	TotalVendors          int     `json:"total_vendors"`
	TotalReservations     int     `json:"total_reservations"`
	ConfirmedReservations int     `json:"confirmed_reservations"`
	PendingReservations   int     `json:"pending_reservations"`
	TotalStalls           int     `json:"total_stalls"`
	AvailableStalls       int     `json:"available_stalls"`
	OccupancyRate         float64 `json:"occupancy_rate"`
}

// ReservationStats counts reservations per status.
type ReservationStats struct {
	Total     int `json:"total_reservations"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

// StallStats is the public inventory summary.
type StallStats struct {
	Total     int `json:"total"`
	Reserved  int `json:"reserved"`
	Available int `json:"available"`
}
