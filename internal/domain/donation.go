package domain

import (
	"sort"
	"strings"
	"time"
)

// Donation represents a single recorded contribution to the temple.
type Donation struct {
	ID           string
	ReceiptNo    string
	Name         string
	Phone        string
	Community    Community
	Location     string
	Address      string
	Amount       int64
	PaymentMode  PaymentMode
	Inscription  bool
	DonationDate *time.Time
	CreatedAt    time.Time
}

// EffectiveDate is the donation date when recorded, otherwise the insert time.
func (d Donation) EffectiveDate() time.Time {
	if d.DonationDate != nil {
		return *d.DonationDate
	}
	return d.CreatedAt
}

// Community is the kulam a donation is recorded under.
type Community string

const (
	CommunityAny      Community = "any"
	CommunityPayiran  Community = "payiran"
	CommunitySemban   Community = "semban"
	CommunityOthaalan Community = "othaalan"
	CommunityAavan    Community = "aavan"
	CommunityAadai    Community = "aadai"
	CommunityVizhiyan Community = "vizhiyan"

	// Legacy members still present in older ledgers.
	CommunityChozhan  Community = "chozhan"
	CommunityPandiyan Community = "pandiyan"
)

// Communities lists the canonical values offered to new submissions.
var Communities = []Community{
	CommunityAny,
	CommunityPayiran,
	CommunitySemban,
	CommunityOthaalan,
	CommunityAavan,
	CommunityAadai,
	CommunityVizhiyan,
}

// communityAliases maps every accepted spelling onto the stored value.
var communityAliases = map[string]Community{
	"any":      CommunityAny,
	"payiran":  CommunityPayiran,
	"semban":   CommunitySemban,
	"othaalan": CommunityOthaalan,
	"aavan":    CommunityAavan,
	"aadai":    CommunityAadai,
	"vizhiyan": CommunityVizhiyan,
	"chozhan":  CommunityChozhan,
	"pandiyan": CommunityPandiyan,
	"odhaalan": CommunityOthaalan,
}

// ParseCommunity resolves raw input against the canonical enum and the legacy aliases.
func ParseCommunity(raw string) (Community, bool) {
	c, ok := communityAliases[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// PaymentMode is how a donation was paid.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentCard         PaymentMode = "card"
	PaymentUPI          PaymentMode = "upi"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheque       PaymentMode = "cheque"
)

// PaymentModes lists every stored payment mode.
var PaymentModes = []PaymentMode{PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer, PaymentCheque}

// ParsePaymentMode accepts stored values plus the spellings used by the web form.
func ParsePaymentMode(raw string) (PaymentMode, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "cash":
		return PaymentCash, true
	case "card":
		return PaymentCard, true
	case "upi":
		return PaymentUPI, true
	case "bank_transfer", "banktransfer":
		return PaymentBankTransfer, true
	case "cheque", "check":
		return PaymentCheque, true
	}
	return "", false
}

// DonorSummary aggregates every donation sharing a phone number.
type DonorSummary struct {
	Name          string
	Phone         string
	Location      string
	Community     Community
	TotalAmount   int64
	DonationCount int
	LastDonation  time.Time
	Donations     []Donation
}

// DonationFilter narrows donation listings. Zero values mean "no filter".
type DonationFilter struct {
	Window      DateWindow
	Community   Community
	PaymentMode PaymentMode
	MinAmount   *int64
	MaxAmount   *int64
	Phone       string
	ReceiptNo   string
}

// DateWindow is an inclusive range on the effective date. Nil bounds are open.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether the window covers all time.
func (w DateWindow) IsZero() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// Matches applies the filter to a single record.
func (f DonationFilter) Matches(d Donation) bool {
	if !f.Window.Contains(d.EffectiveDate()) {
		return false
	}
	if f.Community != "" && d.Community != f.Community {
		return false
	}
	if f.PaymentMode != "" && d.PaymentMode != f.PaymentMode {
		return false
	}
	if f.MinAmount != nil && d.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && d.Amount > *f.MaxAmount {
		return false
	}
	if f.Phone != "" && d.Phone != f.Phone {
		return false
	}
	if f.ReceiptNo != "" && d.ReceiptNo != f.ReceiptNo {
		return false
	}
	return true
}

// SortNewestFirst orders donations by effective date, newest first, breaking
// ties on insert time.
func SortNewestFirst(items []Donation) {
	sort.SliceStable(items, func(i, j int) bool {
		ei, ej := items[i].EffectiveDate(), items[j].EffectiveDate()
		if !ei.Equal(ej) {
			return ei.After(ej)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
