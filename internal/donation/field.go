package donation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"kovil/internal/domain"
)

// Field is a loosely typed input value. JSON strings, numbers, booleans and
// null all decode into their text form; Set records whether the key was present.
type Field struct {
	Value string
	Set   bool
}

// Text builds a present field from a string.
func Text(v string) Field {
	return Field{Value: v, Set: true}
}

func (f *Field) UnmarshalJSON(data []byte) error {
	f.Set = true
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		f.Value = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Value = s
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		f.Value = string(data)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		f.Value = n.String()
	default:
		return fmt.Errorf("unsupported value %s", data)
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Trimmed returns the value without surrounding whitespace.
func (f Field) Trimmed() string {
	return strings.TrimSpace(f.Value)
}

// Empty reports whether the field is absent or blank.
func (f Field) Empty() bool {
	return f.Trimmed() == ""
}

// RawDonation is a submission before normalization, as received from the
// web form, the form webhook or one spreadsheet row.
type RawDonation struct {
	ReceiptNo    Field `json:"receiptNo"`
	Name         Field `json:"name"`
	Phone        Field `json:"phone"`
	Community    Field `json:"community"`
	Location     Field `json:"location"`
	Address      Field `json:"address"`
	Amount       Field `json:"amount"`
	PaymentMode  Field `json:"paymentMode"`
	Inscription  Field `json:"inscription"`
	DonationDate Field `json:"donationDate"`
}

// FromDonation renders a stored donation back into raw form.
func FromDonation(d domain.Donation) RawDonation {
	raw := RawDonation{
		ReceiptNo:   Text(d.ReceiptNo),
		Name:        Text(d.Name),
		Phone:       Text(d.Phone),
		Community:   Text(string(d.Community)),
		Location:    Text(d.Location),
		Address:     Text(d.Address),
		Amount:      Text(fmt.Sprintf("%d", d.Amount)),
		PaymentMode: Text(string(d.PaymentMode)),
		Inscription: Text(fmt.Sprintf("%t", d.Inscription)),
	}
	if d.DonationDate != nil {
		raw.DonationDate = Text(d.DonationDate.Format("2006-01-02T15:04:05Z07:00"))
	}
	return raw
}

// Overlay copies every present field of patch over raw.
func (raw RawDonation) Overlay(patch RawDonation) RawDonation {
	pick := func(base, p Field) Field {
		if p.Set {
			return p
		}
		return base
	}
	return RawDonation{
		ReceiptNo:    pick(raw.ReceiptNo, patch.ReceiptNo),
		Name:         pick(raw.Name, patch.Name),
		Phone:        pick(raw.Phone, patch.Phone),
		Community:    pick(raw.Community, patch.Community),
		Location:     pick(raw.Location, patch.Location),
		Address:      pick(raw.Address, patch.Address),
		Amount:       pick(raw.Amount, patch.Amount),
		PaymentMode:  pick(raw.PaymentMode, patch.PaymentMode),
		Inscription:  pick(raw.Inscription, patch.Inscription),
		DonationDate: pick(raw.DonationDate, patch.DonationDate),
	}
}
