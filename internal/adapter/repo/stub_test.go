package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kovil/internal/domain"
)

type recordedCall struct {
	query string
	args  []any
}

// stubExecutor records every statement and answers from canned values.
type stubExecutor struct {
	calls     []recordedCall
	row       pgx.Row
	donations []domain.Donation
	tag       pgconn.CommandTag
	err       error
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, recordedCall{query: query, args: args})
	return s.tag, s.err
}

func (s *stubExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, recordedCall{query: query, args: args})
	if s.err != nil {
		return valuesRow{err: s.err}
	}
	if s.row == nil {
		return valuesRow{err: pgx.ErrNoRows}
	}
	return s.row
}

func (s *stubExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, recordedCall{query: query, args: args})
	if s.err != nil {
		return nil, s.err
	}
	return &donationRows{items: s.donations}, nil
}

func (s *stubExecutor) last() recordedCall {
	if len(s.calls) == 0 {
		return recordedCall{}
	}
	return s.calls[len(s.calls)-1]
}

// valuesRow assigns values positionally to matching destination pointers.
type valuesRow struct {
	values []any
	err    error
}

func (r valuesRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d dest, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *string:
		*d = v.(string)
	case *int64:
		*d = v.(int64)
	case *bool:
		*d = v.(bool)
	case *time.Time:
		*d = v.(time.Time)
	case **time.Time:
		if v == nil {
			*d = nil
			return nil
		}
		t := v.(time.Time)
		*d = &t
	default:
		return errors.New("unsupported destination")
	}
	return nil
}

func donationValues(d domain.Donation) []any {
	var date any
	if d.DonationDate != nil {
		date = *d.DonationDate
	}
	return []any{
		d.ID, d.ReceiptNo, d.Name, d.Phone, string(d.Community), d.Location, d.Address,
		d.Amount, string(d.PaymentMode), d.Inscription, date, d.CreatedAt,
	}
}

type donationRows struct {
	items []domain.Donation
	idx   int
}

func (r *donationRows) Close()                                       {}
func (r *donationRows) Err() error                                   { return nil }
func (r *donationRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *donationRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *donationRows) Values() ([]any, error)                       { return nil, errors.New("not supported") }
func (r *donationRows) RawValues() [][]byte                          { return nil }
func (r *donationRows) Conn() *pgx.Conn                              { return nil }

func (r *donationRows) Next() bool {
	if r.idx >= len(r.items) {
		return false
	}
	r.idx++
	return true
}

func (r *donationRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.items) {
		return pgx.ErrNoRows
	}
	return valuesRow{values: donationValues(r.items[r.idx-1])}.Scan(dest...)
}
