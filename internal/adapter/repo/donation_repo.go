package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"kovil/internal/domain"
	"kovil/internal/infra"
	"kovil/internal/sqlinline"
)

const receiptUniqueConstraint = "donations_receipt_no_key"

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Create inserts a new donation record. The receipt_no unique constraint is
// the final arbiter for duplicate receipts.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonation,
		donation.ID,
		donation.ReceiptNo,
		donation.Name,
		donation.Phone,
		string(donation.Community),
		donation.Location,
		donation.Address,
		donation.Amount,
		string(donation.PaymentMode),
		donation.Inscription,
		donation.DonationDate,
	)
	var createdAt time.Time
	if err := row.Scan(&createdAt); err != nil {
		if infra.IsUniqueViolation(err, receiptUniqueConstraint) {
			return &domain.DuplicateReceiptError{ReceiptNo: donation.ReceiptNo}
		}
		return fmt.Errorf("insert donation: %w", err)
	}
	donation.CreatedAt = createdAt
	return nil
}

// Update overwrites the mutable fields. Receipt number and creation time never change.
func (r *DonationRepositoryPG) Update(ctx context.Context, donation *domain.Donation) error {
	if !isUUID(donation.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateDonation,
		donation.ID,
		donation.Name,
		donation.Phone,
		string(donation.Community),
		donation.Location,
		donation.Address,
		donation.Amount,
		string(donation.PaymentMode),
		donation.Inscription,
		donation.DonationDate,
	)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a donation by its identifier.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	return scanDonation(r.sql.QueryRow(ctx, sqlinline.QSelectDonationByID, id))
}

// GetByReceiptNo fetches a donation by receipt number.
func (r *DonationRepositoryPG) GetByReceiptNo(ctx context.Context, receiptNo string) (*domain.Donation, error) {
	return scanDonation(r.sql.QueryRow(ctx, sqlinline.QSelectDonationByReceipt, receiptNo))
}

// ReceiptExists reports whether any donation already uses receiptNo.
func (r *DonationRepositoryPG) ReceiptExists(ctx context.Context, receiptNo string) (bool, error) {
	var exists bool
	if err := r.sql.QueryRow(ctx, sqlinline.QDonationReceiptExists, receiptNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("check receipt: %w", err)
	}
	return exists, nil
}

// List returns donations matching filter, newest effective date first.
func (r *DonationRepositoryPG) List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonations,
		filter.Window.Start,
		filter.Window.End,
		nullableText(string(filter.Community)),
		nullableText(string(filter.PaymentMode)),
		filter.MinAmount,
		filter.MaxAmount,
		nullableText(filter.Phone),
		nullableText(filter.ReceiptNo),
	)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return collectDonations(rows)
}

// ListByPhone returns every donation made under phone.
func (r *DonationRepositoryPG) ListByPhone(ctx context.Context, phone string) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonationsByPhone, phone)
	if err != nil {
		return nil, fmt.Errorf("list donations by phone: %w", err)
	}
	return collectDonations(rows)
}

// Search matches query as a substring of name (case-insensitive) or phone.
func (r *DonationRepositoryPG) Search(ctx context.Context, query string, community domain.Community) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSearchDonations, escapeLike(query), string(community))
	if err != nil {
		return nil, fmt.Errorf("search donations: %w", err)
	}
	return collectDonations(rows)
}

// Delete removes a donation, reporting whether it existed.
func (r *DonationRepositoryPG) Delete(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteDonation, id)
	if err != nil {
		return false, fmt.Errorf("delete donation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every donation and resets the receipt sequences in one statement.
func (r *DonationRepositoryPG) DeleteAll(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeleteAllDonations); err != nil {
		return fmt.Errorf("delete all donations: %w", err)
	}
	return nil
}

// isUUID guards the uuid-typed id column; postgres rejects malformed text
// with 22P02 instead of matching nothing.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	if err := row.Scan(donationDest(&d)...); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(donationDest(&d)...); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func donationDest(d *domain.Donation) []any {
	return []any{
		&d.ID,
		&d.ReceiptNo,
		&d.Name,
		&d.Phone,
		(*string)(&d.Community),
		&d.Location,
		&d.Address,
		&d.Amount,
		(*string)(&d.PaymentMode),
		&d.Inscription,
		&d.DonationDate,
		&d.CreatedAt,
	}
}

func nullableText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(v string) string {
	return likeEscaper.Replace(strings.TrimSpace(v))
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
