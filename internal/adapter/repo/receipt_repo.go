package repo

import (
	"context"
	"fmt"

	"kovil/internal/domain"
	"kovil/internal/infra"
	"kovil/internal/sqlinline"
)

// ReceiptSequenceRepositoryPG keeps yearly receipt counters in receipt_sequences.
type ReceiptSequenceRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewReceiptSequenceRepository(sql infra.SQLExecutor) *ReceiptSequenceRepositoryPG {
	return &ReceiptSequenceRepositoryPG{sql: sql}
}

// Next increments the counter for year in a single upsert statement.
func (r *ReceiptSequenceRepositoryPG) Next(ctx context.Context, year int) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QNextReceiptNumber, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next receipt number: %w", err)
	}
	return n, nil
}

func (r *ReceiptSequenceRepositoryPG) Current(ctx context.Context, year int) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCurrentReceiptNumber, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("current receipt number: %w", err)
	}
	return n, nil
}

var _ domain.ReceiptSequenceRepository = (*ReceiptSequenceRepositoryPG)(nil)
