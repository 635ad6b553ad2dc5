package donation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"kovil/internal/domain"
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	nonAmountChars = regexp.MustCompile(`[^0-9.\-]`)
	tenDigits      = regexp.MustCompile(`^\d{10}$`)
)

// ReceiptLookup reports whether a receipt number is already stored.
type ReceiptLookup interface {
	ReceiptExists(ctx context.Context, receiptNo string) (bool, error)
}

// candidate is a submission after cleanup, checked with struct tags.
type candidate struct {
	ReceiptNo   string  `validate:"required,max=50"`
	Name        string  `validate:"required,max=100"`
	Phone       string  `validate:"phone10"`
	Community   string  `validate:"required,community"`
	Location    string  `validate:"required,max=100"`
	Address     string  `validate:"max=255"`
	Amount      float64 `validate:"gt=0,lte=2147483647"`
	PaymentMode string  `validate:"required,paymentmode"`
}

var fieldMessages = map[string]string{
	"ReceiptNo.required":      "Receipt number is required",
	"ReceiptNo.max":           "Receipt number must be at most 50 characters",
	"Name.required":           "Name is required",
	"Name.max":                "Name must be at most 100 characters",
	"Phone.phone10":           "Phone number must be 10 digits",
	"Community.required":      "Community is required",
	"Community.community":     "Invalid community",
	"Location.required":       "Location is required",
	"Location.max":            "Location must be at most 100 characters",
	"Address.max":             "Address must be at most 255 characters",
	"Amount.gt":               "Amount must be a positive number",
	"Amount.lte":              "Amount is too large",
	"PaymentMode.required":    "Payment mode is required",
	"PaymentMode.paymentmode": "Invalid payment mode",
}

// Outcome is a normalized donation plus any leniency that was applied.
type Outcome struct {
	Donation domain.Donation
	Warnings []string
}

// Validator turns raw submissions into canonical donations.
type Validator struct {
	validate *validator.Validate
	lookup   ReceiptLookup
	loc      *time.Location
	now      func() time.Time
}

func NewValidator(lookup ReceiptLookup, loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	v := validator.New()
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return tenDigits.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("community", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCommunity(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParsePaymentMode(fl.Field().String())
		return ok
	})
	return &Validator{validate: v, lookup: lookup, loc: loc, now: time.Now}
}

// WithClock overrides the clock used for the lenient date fallback.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate normalizes raw under p and rejects receipt numbers already stored.
func (v *Validator) Validate(ctx context.Context, raw RawDonation, p Policy) (domain.Donation, error) {
	out, err := v.Inspect(ctx, raw, p)
	return out.Donation, err
}

// Inspect is Validate that also returns the warnings of lenient policies.
// Field errors and a duplicate receipt found for the same submission are
// reported together as one *domain.ValidationError; a duplicate alone is a
// *domain.DuplicateReceiptError.
func (v *Validator) Inspect(ctx context.Context, raw RawDonation, p Policy) (Outcome, error) {
	out, fieldErr := v.Normalize(raw, p)

	receiptNo := raw.ReceiptNo.Trimmed()
	var dupErr error
	if receiptNo != "" && v.lookup != nil {
		exists, err := v.lookup.ReceiptExists(ctx, receiptNo)
		if err != nil {
			return out, fmt.Errorf("check receipt %s: %w", receiptNo, err)
		}
		if exists {
			dupErr = &domain.DuplicateReceiptError{ReceiptNo: receiptNo}
		}
	}

	var verr *domain.ValidationError
	if errors.As(fieldErr, &verr) {
		if dupErr != nil {
			verr.Add(dupErr.Error())
		}
		return out, verr
	}
	if dupErr != nil {
		return out, dupErr
	}
	return out, nil
}

// Normalize applies the field rules only. It never touches storage.
func (v *Validator) Normalize(raw RawDonation, p Policy) (Outcome, error) {
	var (
		out  Outcome
		verr = &domain.ValidationError{}
	)

	c := candidate{
		ReceiptNo: raw.ReceiptNo.Trimmed(),
		Name:      strings.Join(strings.Fields(raw.Name.Value), " "),
		Phone:     raw.Phone.Trimmed(),
		Location:  strings.TrimSpace(raw.Location.Value),
		Address:   strings.TrimSpace(raw.Address.Value),
	}
	if p.StripPhone {
		c.Phone = nonDigits.ReplaceAllString(c.Phone, "")
	}

	c.Community = raw.Community.Trimmed()
	if c.Community == "" && p.EmptyCommunityAsAny {
		c.Community = string(domain.CommunityAny)
	} else if _, ok := domain.ParseCommunity(c.Community); !ok && c.Community != "" && p.UnknownCommunityAsAny {
		out.Warnings = append(out.Warnings, fmt.Sprintf("Unknown community %q recorded as any", c.Community))
		c.Community = string(domain.CommunityAny)
	}

	c.PaymentMode = raw.PaymentMode.Trimmed()
	if c.PaymentMode == "" && p.DefaultCash {
		c.PaymentMode = string(domain.PaymentCash)
	}

	amountText := raw.Amount.Trimmed()
	if p.CleanAmount {
		amountText = nonAmountChars.ReplaceAllString(amountText, "")
	}
	if amount, err := strconv.ParseFloat(amountText, 64); err == nil && !math.IsNaN(amount) && !math.IsInf(amount, 0) {
		c.Amount = math.Round(amount)
	}

	if err := v.validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return out, err
		}
		for _, fe := range fieldErrs {
			verr.Add(messageFor(fe))
		}
	}
	if c.Name != "" && p.NameMinLength > 1 && len([]rune(c.Name)) < p.NameMinLength {
		verr.Add(fmt.Sprintf("Name must be at least %d characters", p.NameMinLength))
	}

	inscription, ok := parseInscription(raw.Inscription.Trimmed())
	if !ok {
		if p.LenientInscription {
			inscription = strings.Contains(strings.ToLower(raw.Inscription.Trimmed()), "yes")
		} else {
			verr.Add("Inscription must be yes or no")
		}
	}

	var donationDate *time.Time
	if dateText := raw.DonationDate.Trimmed(); dateText != "" {
		parsed, err := ParseDate(dateText, v.loc)
		switch {
		case err == nil:
			donationDate = &parsed
		case p.LenientDate:
			today := StartOfDay(v.now().In(v.loc))
			donationDate = &today
			out.Warnings = append(out.Warnings, fmt.Sprintf("Unrecognized date %q recorded as %s", dateText, today.Format("02/01/2006")))
		default:
			verr.Add("Invalid donation date")
		}
	}

	if !verr.Empty() {
		return out, verr
	}

	community, _ := domain.ParseCommunity(c.Community)
	mode, _ := domain.ParsePaymentMode(c.PaymentMode)
	out.Donation = domain.Donation{
		ID:           uuid.NewString(),
		ReceiptNo:    c.ReceiptNo,
		Name:         c.Name,
		Phone:        c.Phone,
		Community:    community,
		Location:     c.Location,
		Address:      c.Address,
		Amount:       int64(c.Amount),
		PaymentMode:  mode,
		Inscription:  inscription,
		DonationDate: donationDate,
	}
	return out, nil
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func parseInscription(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "", "no", "n", "false", "0", "off":
		return false, true
	case "yes", "y", "true", "1", "on":
		return true, true
	}
	return false, false
}
