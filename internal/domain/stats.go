package domain

import "time"

// DashboardStats holds the headline numbers for a date window.
type DashboardStats struct {
	TotalCollection int64
	TotalDonors     int
	TotalDonations  int
	AverageDonation float64
}

// ModeShare is one row of the payment mode distribution.
type ModeShare struct {
	Mode       PaymentMode
	Count      int
	Amount     int64
	Percentage float64
}

// DashboardOverview is everything the dashboard renders for one query.
type DashboardOverview struct {
	Stats        DashboardStats
	Distribution []ModeShare
	Recent       []Donation
	GeneratedAt  time.Time
}
