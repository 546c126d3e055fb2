package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalGuests    int64           `json:"total_guests"`
	ActiveBookings int64           `json:"active_bookings"`
	OccupancyRate  float64         `json:"occupancy_rate"`
}
