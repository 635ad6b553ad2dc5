package domain

import "context"

// DonationRepository handles donation persistence.
//
// Create must enforce receipt uniqueness itself and report a conflict as a
// *DuplicateReceiptError, whatever checks the caller ran beforehand.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	Update(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*Donation, error)
	ReceiptExists(ctx context.Context, receiptNo string) (bool, error)
	List(ctx context.Context, filter DonationFilter) ([]Donation, error)
	ListByPhone(ctx context.Context, phone string) ([]Donation, error)
	Search(ctx context.Context, query string, community Community) ([]Donation, error)
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteAll wipes donations and receipt sequences together.
	DeleteAll(ctx context.Context) error
}

// ReceiptSequenceRepository stores the last issued receipt number per year.
type ReceiptSequenceRepository interface {
	// Next atomically increments the counter for year, creating it at 1.
	Next(ctx context.Context, year int) (int64, error)
	// Current returns the last issued number, or 0 when none was issued.
	Current(ctx context.Context, year int) (int64, error)
}

// AdminRepository persists administrator accounts.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Insert(ctx context.Context, admin *Admin) (bool, error)
	UpdateCredentials(ctx context.Context, id, username, passwordHash string) error
	TouchLogin(ctx context.Context, id string) error
}
