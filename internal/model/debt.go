package model

import (
	"context"
	"time"
)

// DebtStore defines persistence operations for debts.
type DebtStore interface {
	// GetByID fetches a debt regardless of owner; ownership is enforced
	// by the service so a foreign debt yields Forbidden, not NotFound.
	GetByID(ctx context.Context, debtID string) (Debt, error)
	ListByOwner(ctx context.Context, ownerUsername string) ([]Debt, error)
	Create(ctx context.Context, debt Debt) (Debt, error)
	Update(ctx context.Context, debt Debt) (Debt, error)
	Delete(ctx context.Context, debtID string) error
}

// Debt represents an owned debt record. Monetary and rate fields are
// decimal strings; the service validates them, the store does not
// interpret them.
type Debt struct {
	ID               string
	OwnerUsername    string
	Name             string
	Principal        string
	InterestRate     string
	StartDate        time.Time
	EndDate          *time.Time
	Description      string
	Creditor         string
	PaymentFrequency string
	PaymentAmount    string
	MinimumPayment   string
	CurrentBalance   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
