// Package memstore keeps donations, receipt sequences and admins in process
// memory. It backs the "memory" storage driver and the service tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"kovil/internal/domain"
)

// Store is the shared state behind the three repositories.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	donations map[string]domain.Donation
	receipts  map[string]string
	sequences map[int]int64
	admins    map[string]domain.Admin
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:       time.Now,
		donations: make(map[string]domain.Donation),
		receipts:  make(map[string]string),
		sequences: make(map[int]int64),
		admins:    make(map[string]domain.Admin),
	}
}

// WithClock overrides the clock used for CreatedAt and admin timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Donations() *DonationRepository { return &DonationRepository{s: s} }

func (s *Store) Receipts() *ReceiptSequenceRepository { return &ReceiptSequenceRepository{s: s} }

func (s *Store) Admins() *AdminRepository { return &AdminRepository{s: s} }

// DonationRepository implements domain.DonationRepository.
type DonationRepository struct {
	s *Store
}

// Create inserts donation; the receipt index is checked under the write lock.
func (r *DonationRepository) Create(_ context.Context, donation *domain.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.receipts[donation.ReceiptNo]; taken {
		return &domain.DuplicateReceiptError{ReceiptNo: donation.ReceiptNo}
	}
	donation.CreatedAt = r.s.now()
	r.s.donations[donation.ID] = cloneDonation(*donation)
	r.s.receipts[donation.ReceiptNo] = donation.ID
	return nil
}

func (r *DonationRepository) Update(_ context.Context, donation *domain.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.donations[donation.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneDonation(*donation)
	updated.ReceiptNo = existing.ReceiptNo
	updated.CreatedAt = existing.CreatedAt
	r.s.donations[donation.ID] = updated
	return nil
}

func (r *DonationRepository) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.donations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneDonation(d)
	return &out, nil
}

func (r *DonationRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*domain.Donation, error) {
	r.s.mu.RLock()
	id, ok := r.s.receipts[receiptNo]
	r.s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *DonationRepository) ReceiptExists(_ context.Context, receiptNo string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.receipts[receiptNo]
	return ok, nil
}

func (r *DonationRepository) List(_ context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	return r.collect(filter.Matches), nil
}

func (r *DonationRepository) ListByPhone(_ context.Context, phone string) ([]domain.Donation, error) {
	return r.collect(func(d domain.Donation) bool { return d.Phone == phone }), nil
}

// Search matches query against name (case-insensitive) or phone.
func (r *DonationRepository) Search(_ context.Context, query string, community domain.Community) ([]domain.Donation, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	return r.collect(func(d domain.Donation) bool {
		if community != "" && d.Community != community {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(d.Name), needle) || strings.Contains(d.Phone, needle)
	}), nil
}

func (r *DonationRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok {
		return false, nil
	}
	delete(r.s.donations, id)
	delete(r.s.receipts, d.ReceiptNo)
	return true, nil
}

func (r *DonationRepository) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.donations = make(map[string]domain.Donation)
	r.s.receipts = make(map[string]string)
	r.s.sequences = make(map[int]int64)
	return nil
}

func (r *DonationRepository) collect(keep func(domain.Donation) bool) []domain.Donation {
	r.s.mu.RLock()
	var items []domain.Donation
	for _, d := range r.s.donations {
		if keep(d) {
			items = append(items, cloneDonation(d))
		}
	}
	r.s.mu.RUnlock()

	// Map iteration is random; fix the order before the stable sort.
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	domain.SortNewestFirst(items)
	return items
}

func cloneDonation(d domain.Donation) domain.Donation {
	if d.DonationDate != nil {
		date := *d.DonationDate
		d.DonationDate = &date
	}
	return d
}

// ReceiptSequenceRepository implements domain.ReceiptSequenceRepository.
type ReceiptSequenceRepository struct {
	s *Store
}

func (r *ReceiptSequenceRepository) Next(_ context.Context, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[year]++
	return r.s.sequences[year], nil
}

func (r *ReceiptSequenceRepository) Current(_ context.Context, year int) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sequences[year], nil
}

// AdminRepository implements domain.AdminRepository. Usernames are matched case-insensitively.
type AdminRepository struct {
	s *Store
}

func (r *AdminRepository) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if strings.EqualFold(a.Username, username) {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AdminRepository) List(_ context.Context) ([]domain.Admin, error) {
	r.s.mu.RLock()
	items := make([]domain.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		items = append(items, a)
	}
	r.s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Username < items[j].Username
	})
	return items, nil
}

func (r *AdminRepository) Insert(_ context.Context, admin *domain.Admin) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if strings.EqualFold(a.Username, admin.Username) {
			return false, nil
		}
	}
	now := r.s.now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.s.admins[admin.ID] = *admin
	return true, nil
}

func (r *AdminRepository) UpdateCredentials(_ context.Context, id, username, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return domain.ErrNotFound
	}
	for otherID, other := range r.s.admins {
		if otherID != id && strings.EqualFold(other.Username, username) {
			return domain.ErrInvalidCredentials
		}
	}
	a.Username = username
	a.PasswordHash = passwordHash
	a.UpdatedAt = r.s.now()
	r.s.admins[id] = a
	return nil
}

func (r *AdminRepository) TouchLogin(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := r.s.now()
	a.LastLoginAt = &now
	r.s.admins[id] = a
	return nil
}

var (
	_ domain.DonationRepository        = (*DonationRepository)(nil)
	_ domain.ReceiptSequenceRepository = (*ReceiptSequenceRepository)(nil)
	_ domain.AdminRepository           = (*AdminRepository)(nil)
)
