package repo

import (
	"context"
	"errors"
	"testing"

	"kovil/internal/sqlinline"
)

func TestReceiptNext(t *testing.T) {
	exec := &stubExecutor{row: valuesRow{values: []any{int64(7)}}}
	repo := NewReceiptSequenceRepository(exec)

	n, err := repo.Next(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}
	call := exec.last()
	if call.query != sqlinline.QNextReceiptNumber {
		t.Fatalf("unexpected query %q", call.query)
	}
	if year, ok := call.args[0].(int); !ok || year != 2025 {
		t.Fatalf("year arg mismatch: %#v", call.args[0])
	}
}

func TestReceiptNextPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewReceiptSequenceRepository(&stubExecutor{err: boom})
	if _, err := repo.Next(context.Background(), 2025); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestReceiptCurrent(t *testing.T) {
	repo := NewReceiptSequenceRepository(&stubExecutor{row: valuesRow{values: []any{int64(0)}}})
	n, err := repo.Current(context.Background(), 2030)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
