package handlers

import (
	"time"

	"kovil/internal/domain"
)

type donationDTO struct {
	ID           string     `json:"id"`
	ReceiptNo    string     `json:"receiptNo"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Community    string     `json:"community"`
	Location     string     `json:"location"`
	Address      string     `json:"address"`
	Amount       int64      `json:"amount"`
	PaymentMode  string     `json:"paymentMode"`
	Inscription  bool       `json:"inscription"`
	DonationDate *time.Time `json:"donationDate"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toDonationDTO(d domain.Donation) donationDTO {
	return donationDTO{
		ID:           d.ID,
		ReceiptNo:    d.ReceiptNo,
		Name:         d.Name,
		Phone:        d.Phone,
		Community:    string(d.Community),
		Location:     d.Location,
		Address:      d.Address,
		Amount:       d.Amount,
		PaymentMode:  string(d.PaymentMode),
		Inscription:  d.Inscription,
		DonationDate: d.DonationDate,
		CreatedAt:    d.CreatedAt,
	}
}

func toDonationDTOs(items []domain.Donation) []donationDTO {
	out := make([]donationDTO, 0, len(items))
	for _, d := range items {
		out = append(out, toDonationDTO(d))
	}
	return out
}

type donorDTO struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Location      string        `json:"location"`
	Community     string        `json:"community"`
	TotalAmount   int64         `json:"totalAmount"`
	DonationCount int           `json:"donationCount"`
	LastDonation  time.Time     `json:"lastDonation"`
	Donations     []donationDTO `json:"donations"`
}

func toDonorDTO(s domain.DonorSummary) donorDTO {
	return donorDTO{
		Name:          s.Name,
		Phone:         s.Phone,
		Location:      s.Location,
		Community:     string(s.Community),
		TotalAmount:   s.TotalAmount,
		DonationCount: s.DonationCount,
		LastDonation:  s.LastDonation,
		Donations:     toDonationDTOs(s.Donations),
	}
}

type modeShareDTO struct {
	Mode       string  `json:"mode"`
	Count      int     `json:"count"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type recentDonationDTO struct {
	ID           string     `json:"id"`
	ReceiptNo    string     `json:"receiptNo"`
	Name         string     `json:"name"`
	Amount       int64      `json:"amount"`
	PaymentMode  string     `json:"paymentMode"`
	DonationDate *time.Time `json:"donationDate"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type dashboardDTO struct {
	TotalCollections        int64               `json:"totalCollections"`
	TotalDonors             int                 `json:"totalDonors"`
	TotalDonations          int                 `json:"totalDonations"`
	AvgDonation             float64             `json:"avgDonation"`
	PaymentModeDistribution []modeShareDTO      `json:"paymentModeDistribution"`
	RecentDonations         []recentDonationDTO `json:"recentDonations"`
	GeneratedAt             time.Time           `json:"generatedAt"`
}

func toDashboardDTO(o domain.DashboardOverview) dashboardDTO {
	out := dashboardDTO{
		TotalCollections:        o.Stats.TotalCollection,
		TotalDonors:             o.Stats.TotalDonors,
		TotalDonations:          o.Stats.TotalDonations,
		AvgDonation:             o.Stats.AverageDonation,
		PaymentModeDistribution: make([]modeShareDTO, 0, len(o.Distribution)),
		RecentDonations:         make([]recentDonationDTO, 0, len(o.Recent)),
		GeneratedAt:             o.GeneratedAt,
	}
	for _, m := range o.Distribution {
		out.PaymentModeDistribution = append(out.PaymentModeDistribution, modeShareDTO{
			Mode:       string(m.Mode),
			Count:      m.Count,
			Amount:     m.Amount,
			Percentage: m.Percentage,
		})
	}
	for _, d := range o.Recent {
		out.RecentDonations = append(out.RecentDonations, recentDonationDTO{
			ID:           d.ID,
			ReceiptNo:    d.ReceiptNo,
			Name:         d.Name,
			Amount:       d.Amount,
			PaymentMode:  string(d.PaymentMode),
			DonationDate: d.DonationDate,
			CreatedAt:    d.CreatedAt,
		})
	}
	return out
}
