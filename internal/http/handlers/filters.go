package handlers

import (
	"net/http"
	"strings"

	"kovil/internal/dashboard"
	"kovil/internal/domain"
)

type amountBounds struct {
	min, max *int64
}

func bound(v int64) *int64 { return &v }

var amountRanges = map[string]amountBounds{
	"0-1000":     {bound(0), bound(1000)},
	"1001-5000":  {bound(1001), bound(5000)},
	"5001-10000": {bound(5001), bound(10000)},
	"10000+":     {bound(10000), nil},
}

// rangeQuery reads dateRange/startDate/endDate. Explicit bounds without a
// preset select a custom window.
func rangeQuery(r *http.Request) dashboard.Query {
	q := r.URL.Query()
	out := dashboard.Query{
		Preset:    strings.TrimSpace(q.Get("dateRange")),
		StartDate: strings.TrimSpace(q.Get("startDate")),
		EndDate:   strings.TrimSpace(q.Get("endDate")),
	}
	if out.Preset == "" && out.StartDate != "" && out.EndDate != "" {
		out.Preset = "custom"
	}
	return out
}

// donationFilter builds a listing filter from the query string. "all" and
// blank values disable a filter; unknown values are rejected.
func (a *App) donationFilter(r *http.Request) (domain.DonationFilter, error) {
	q := r.URL.Query()
	var filter domain.DonationFilter
	verr := &domain.ValidationError{}

	rng, err := a.Dashboard.Resolve(rangeQuery(r))
	if err != nil {
		return filter, err
	}
	filter.Window = domain.DateWindow{Start: rng.Start, End: rng.End}

	if v := strings.TrimSpace(q.Get("community")); v != "" && !strings.EqualFold(v, "all") {
		c, ok := domain.ParseCommunity(v)
		if !ok {
			verr.Add("Invalid community")
		}
		filter.Community = c
	}
	if v := strings.TrimSpace(q.Get("paymentMode")); v != "" && !strings.EqualFold(v, "all") {
		m, ok := domain.ParsePaymentMode(v)
		if !ok {
			verr.Add("Invalid payment mode")
		}
		filter.PaymentMode = m
	}
	if v := strings.TrimSpace(q.Get("amountRange")); v != "" && !strings.EqualFold(v, "all") {
		b, ok := amountRanges[v]
		if !ok {
			verr.Add("Invalid amount range")
		}
		filter.MinAmount, filter.MaxAmount = b.min, b.max
	}
	filter.Phone = strings.TrimSpace(q.Get("phone"))
	filter.ReceiptNo = strings.TrimSpace(q.Get("receiptNo"))

	if !verr.Empty() {
		return filter, verr
	}
	return filter, nil
}
