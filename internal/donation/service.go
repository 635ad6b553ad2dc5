package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"kovil/internal/domain"
)

// Service records donations and keeps dependent caches informed of writes.
type Service struct {
	repo      domain.DonationRepository
	validator *Validator
	logger    zerolog.Logger
	onChange  []func()
}

func NewService(repo domain.DonationRepository, validator *Validator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// OnChange registers fn to run after every successful write.
func (s *Service) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// Changed runs the write hooks. Callers batching Insert use it once at the end.
func (s *Service) Changed() {
	for _, fn := range s.onChange {
		fn()
	}
}

// Validator exposes the validator for callers that run their own intake loop.
func (s *Service) Validator() *Validator {
	return s.validator
}

// Create validates raw under p and stores it. A uniqueness violation at
// insert is reported the same way as the pre-check.
func (s *Service) Create(ctx context.Context, raw RawDonation, p Policy) (*domain.Donation, error) {
	d, err := s.validator.Validate(ctx, raw, p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("receipt_no", d.ReceiptNo).Str("intake", p.Name).Int64("amount", d.Amount).Msg("donation recorded")
	s.Changed()
	return &d, nil
}

// Insert stores an already validated donation without running the write hooks.
func (s *Service) Insert(ctx context.Context, d *domain.Donation) error {
	return s.repo.Create(ctx, d)
}

// Update applies the present fields of patch to the stored donation. The
// receipt number may be repeated but not changed.
func (s *Service) Update(ctx context.Context, id string, patch RawDonation) (*domain.Donation, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.ReceiptNo.Set && patch.ReceiptNo.Trimmed() != existing.ReceiptNo {
		return nil, &domain.ValidationError{Reasons: []string{"Receipt number cannot be changed"}}
	}

	out, err := s.validator.Normalize(FromDonation(*existing).Overlay(patch), EditPolicy)
	if err != nil {
		return nil, err
	}
	updated := out.Donation
	updated.ID = existing.ID
	updated.ReceiptNo = existing.ReceiptNo
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.Changed()
	return &updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Donation, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes one donation, returning domain.ErrNotFound when it does not exist.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.Changed()
	return nil
}

// DeleteAll wipes every donation and resets the receipt sequences.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Warn().Msg("all donations deleted")
	s.Changed()
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return items, nil
}

// CheckReceipt reports whether receiptNo is already used.
func (s *Service) CheckReceipt(ctx context.Context, receiptNo string) (bool, error) {
	receiptNo = strings.TrimSpace(receiptNo)
	if receiptNo == "" {
		return false, nil
	}
	return s.repo.ReceiptExists(ctx, receiptNo)
}

func (s *Service) ListByPhone(ctx context.Context, phone string) ([]domain.Donation, error) {
	return s.repo.ListByPhone(ctx, strings.TrimSpace(phone))
}

// IsDuplicate reports whether err is a duplicate receipt conflict.
func IsDuplicate(err error) bool {
	return errors.Is(err, domain.ErrDuplicateReceipt)
}
