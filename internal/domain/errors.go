package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateReceipt   = errors.New("duplicate receipt number")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrImmutableReceipt   = errors.New("receipt number cannot be changed")
)

// ValidationError carries every field-level reason a submission was rejected.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, ", ")
}

// Add appends a reason.
func (e *ValidationError) Add(reason string) {
	e.Reasons = append(e.Reasons, reason)
}

// Empty reports whether no reason was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Reasons) == 0
}

// DuplicateReceiptError names the receipt number that already exists.
type DuplicateReceiptError struct {
	ReceiptNo string
}

func (e *DuplicateReceiptError) Error() string {
	return fmt.Sprintf("Receipt number %s already exists", e.ReceiptNo)
}

func (e *DuplicateReceiptError) Is(target error) bool {
	return target == ErrDuplicateReceipt
}
