// Package dashboard computes headline statistics over donations in a date window.
package dashboard

import (
	"sort"

	"kovil/internal/domain"
)

// ComputeStats totals the donations whose effective date falls in w.
func ComputeStats(items []domain.Donation, w domain.DateWindow) domain.DashboardStats {
	var stats domain.DashboardStats
	phones := make(map[string]struct{})
	for _, d := range items {
		if !w.Contains(d.EffectiveDate()) {
			continue
		}
		stats.TotalCollection += d.Amount
		stats.TotalDonations++
		phones[d.Phone] = struct{}{}
	}
	stats.TotalDonors = len(phones)
	if stats.TotalDonations > 0 {
		stats.AverageDonation = float64(stats.TotalCollection) / float64(stats.TotalDonations)
	}
	return stats
}

// PaymentModeDistribution groups the window by payment mode, largest count first.
func PaymentModeDistribution(items []domain.Donation, w domain.DateWindow) []domain.ModeShare {
	byMode := make(map[domain.PaymentMode]*domain.ModeShare)
	total := 0
	for _, d := range items {
		if !w.Contains(d.EffectiveDate()) {
			continue
		}
		share, ok := byMode[d.PaymentMode]
		if !ok {
			share = &domain.ModeShare{Mode: d.PaymentMode}
			byMode[d.PaymentMode] = share
		}
		share.Count++
		share.Amount += d.Amount
		total++
	}

	out := make([]domain.ModeShare, 0, len(byMode))
	for _, share := range byMode {
		if total > 0 {
			share.Percentage = float64(share.Count) / float64(total) * 100
		}
		out = append(out, *share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}

// RecentDonations returns up to limit donations in w. Donations carrying a
// donation date come first, newest date first; undated donations follow in
// creation order, newest first.
func RecentDonations(items []domain.Donation, limit int, w domain.DateWindow) []domain.Donation {
	var out []domain.Donation
	for _, d := range items {
		if w.Contains(d.EffectiveDate()) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DonationDate != nil && b.DonationDate == nil:
			return true
		case a.DonationDate == nil && b.DonationDate != nil:
			return false
		case a.DonationDate != nil && !a.DonationDate.Equal(*b.DonationDate):
			return a.DonationDate.After(*b.DonationDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
