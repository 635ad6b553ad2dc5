package importer

import (
	"sort"
	"strings"

	"kovil/internal/donation"
)

// columnAliases lists, per donation field, the header spellings accepted in
// import files. Earlier aliases win when a row fills several of them.
var columnAliases = []struct {
	field   string
	headers []string
}{
	{"receiptNo", []string{"Receipt No", "ReceiptNo", "receipt_no", "Receipt Number"}},
	{"name", []string{"Name", "Donor Name"}},
	{"phone", []string{"Phone", "Phone Number", "Mobile"}},
	{"community", []string{"Community", "Kulam"}},
	{"location", []string{"Location", "Place"}},
	{"address", []string{"Address"}},
	{"amount", []string{"Amount", "Donation Amount"}},
	{"paymentMode", []string{"Payment Mode", "PaymentMode", "payment_mode", "Mode"}},
	{"inscription", []string{"Inscription"}},
	{"donationDate", []string{"Date", "Donation Date"}},
}

type aliasTarget struct {
	field string
	rank  int
}

// headerIndex maps a normalized header onto its field and alias rank.
var headerIndex = func() map[string]aliasTarget {
	idx := make(map[string]aliasTarget)
	for _, col := range columnAliases {
		for rank, h := range col.headers {
			key := normalizeHeader(h)
			if _, dup := idx[key]; !dup {
				idx[key] = aliasTarget{field: col.field, rank: rank}
			}
		}
	}
	return idx
}()

// normalizeHeader folds case and drops spaces, underscores, dots and dashes,
// so "Receipt No", "receipt_no" and "RECEIPT NO." collide.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch r {
		case ' ', '_', '.', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Row is one decoded spreadsheet row keyed by its header text.
type Row map[string]string

// ToRaw resolves the row's headers through the alias table. Headers that
// normalize to the same alias are taken in sorted order, first one wins.
func (row Row) ToRaw() donation.RawDonation {
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	chosen := make(map[string]aliasTarget)
	values := make(map[string]string)
	for _, header := range headers {
		value := row[header]
		target, ok := headerIndex[normalizeHeader(header)]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if prev, seen := chosen[target.field]; seen && prev.rank <= target.rank {
			continue
		}
		chosen[target.field] = target
		values[target.field] = value
	}

	field := func(name string) donation.Field {
		if v, ok := values[name]; ok {
			return donation.Text(v)
		}
		return donation.Field{}
	}
	return donation.RawDonation{
		ReceiptNo:    field("receiptNo"),
		Name:         field("name"),
		Phone:        field("phone"),
		Community:    field("community"),
		Location:     field("location"),
		Address:      field("address"),
		Amount:       field("amount"),
		PaymentMode:  field("paymentMode"),
		Inscription:  field("inscription"),
		DonationDate: field("donationDate"),
	}
}
