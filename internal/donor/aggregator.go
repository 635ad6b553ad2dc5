// Package donor derives donor summaries by grouping donations on phone number.
package donor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kovil/internal/domain"
)

// Source is the slice of the donation store the aggregator reads.
type Source interface {
	Search(ctx context.Context, query string, community domain.Community) ([]domain.Donation, error)
	ListByPhone(ctx context.Context, phone string) ([]domain.Donation, error)
}

type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Search returns one summary per phone among donations whose name or phone
// contains query, optionally restricted to a community ("" or "all" for any).
// An empty query without a community yields no results.
func (a *Aggregator) Search(ctx context.Context, query, community string) ([]domain.DonorSummary, error) {
	query = strings.TrimSpace(query)
	var filter domain.Community
	switch c := strings.ToLower(strings.TrimSpace(community)); c {
	case "", "all":
	default:
		parsed, ok := domain.ParseCommunity(c)
		if !ok {
			return []domain.DonorSummary{}, nil
		}
		filter = parsed
	}
	if query == "" && filter == "" {
		return []domain.DonorSummary{}, nil
	}

	items, err := a.source.Search(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("search donors: %w", err)
	}
	return Group(items), nil
}

// GetByPhone summarizes every donation made under phone.
func (a *Aggregator) GetByPhone(ctx context.Context, phone string) (*domain.DonorSummary, error) {
	items, err := a.source.ListByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, fmt.Errorf("donor %s: %w", phone, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	summaries := Group(items)
	return &summaries[0], nil
}

// Group folds donations into per-phone summaries ordered by last donation,
// newest first. Identity fields come from each donor's most recent donation.
func Group(items []domain.Donation) []domain.DonorSummary {
	byPhone := make(map[string][]domain.Donation)
	var order []string
	for _, d := range items {
		if _, ok := byPhone[d.Phone]; !ok {
			order = append(order, d.Phone)
		}
		byPhone[d.Phone] = append(byPhone[d.Phone], d)
	}

	out := make([]domain.DonorSummary, 0, len(order))
	for _, phone := range order {
		group := byPhone[phone]
		domain.SortNewestFirst(group)
		latest := group[0]
		summary := domain.DonorSummary{
			Name:          latest.Name,
			Phone:         phone,
			Location:      latest.Location,
			Community:     latest.Community,
			DonationCount: len(group),
			LastDonation:  latest.EffectiveDate(),
			Donations:     group,
		}
		for _, d := range group {
			summary.TotalAmount += d.Amount
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastDonation.After(out[j].LastDonation)
	})
	return out
}
