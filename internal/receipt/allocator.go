// Package receipt hands out sequential receipt numbers per calendar year.
package receipt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"kovil/internal/domain"
)

type Allocator struct {
	seq      domain.ReceiptSequenceRepository
	padWidth int
	loc      *time.Location
	now      func() time.Time
}

// NewAllocator returns an allocator that zero-pads numbers to padWidth
// digits (0 disables padding) and resolves the current year in loc.
func NewAllocator(seq domain.ReceiptSequenceRepository, padWidth int, loc *time.Location) *Allocator {
	if loc == nil {
		loc = time.UTC
	}
	return &Allocator{seq: seq, padWidth: padWidth, loc: loc, now: time.Now}
}

func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Next atomically issues the next number for year. The first call for a
// year returns "1".
func (a *Allocator) Next(ctx context.Context, year int) (string, error) {
	n, err := a.seq.Next(ctx, year)
	if err != nil {
		return "", fmt.Errorf("allocate receipt for %d: %w", year, err)
	}
	return a.Format(n), nil
}

// NextForNow issues a number for the current year.
func (a *Allocator) NextForNow(ctx context.Context) (string, int, error) {
	year := a.now().In(a.loc).Year()
	n, err := a.Next(ctx, year)
	return n, year, err
}

// Current reports the last number issued for year without consuming one.
func (a *Allocator) Current(ctx context.Context, year int) (int64, error) {
	return a.seq.Current(ctx, year)
}

func (a *Allocator) Format(n int64) string {
	if a.padWidth <= 0 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%0*d", a.padWidth, n)
}
