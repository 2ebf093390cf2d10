package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

// DebtParams carries client-supplied debt fields. Monetary and rate
// values are decimal strings.
type DebtParams struct {
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
}

var paymentFrequencies = map[string]struct{}{
	"weekly":    {},
	"biweekly":  {},
	"monthly":   {},
	"quarterly": {},
	"annually":  {},
}

// Debt implements owner-scoped CRUD over debt records. Every operation
// on an existing debt checks ownership: an authenticated caller acting
// on someone else's debt gets ErrForbidden, distinct from not-found.
type Debt struct {
	debts  model.DebtStore
	logger *logger.Logger
}

// NewDebt creates a new Debt service.
func NewDebt(debts model.DebtStore, logger *logger.Logger) *Debt {
	return &Debt{debts: debts, logger: logger}
}

// Create stores a new debt owned by ownerUsername with a generated id.
func (s *Debt) Create(ctx context.Context, ownerUsername string, params DebtParams) (model.Debt, error) {
	if err := validateDebtParams(params); err != nil {
		return model.Debt{}, err
	}

	now := time.Now()
	debt := model.Debt{
		ID:               uuid.NewString(),
		OwnerUsername:    ownerUsername,
		Name:             params.Name,
		Principal:        params.Principal,
		InterestRate:     params.InterestRate,
		StartDate:        params.StartDate,
		EndDate:          params.EndDate,
		Description:      params.Description,
		Creditor:         params.Creditor,
		PaymentFrequency: params.PaymentFrequency,
		PaymentAmount:    params.PaymentAmount,
		MinimumPayment:   params.MinimumPayment,
		CurrentBalance:   params.CurrentBalance,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.debts.Create(ctx, debt)
	if err != nil {
		s.logger.Error("Debt service: failed to create debt",
			"owner", ownerUsername,
			"error", err.Error())
		return model.Debt{}, fmt.Errorf("failed to create debt: %w", err)
	}

	s.logger.Info("Debt service: debt created",
		"owner", ownerUsername,
		"debt_id", created.ID)

	return created, nil
}

// Get fetches a debt and enforces ownership.
func (s *Debt) Get(ctx context.Context, username, debtID string) (model.Debt, error) {
	debt, err := s.debts.GetByID(ctx, debtID)
	if err != nil {
		return model.Debt{}, err
	}
	if debt.OwnerUsername != username {
		s.logger.Warn("Debt service: ownership violation",
			"username", username,
			"debt_id", debtID)
		return model.Debt{}, model.ErrForbidden
	}
	return debt, nil
}

// List returns every debt owned by username.
func (s *Debt) List(ctx context.Context, username string) ([]model.Debt, error) {
	debts, err := s.debts.ListByOwner(ctx, username)
	if err != nil {
		s.logger.Error("Debt service: failed to list debts",
			"owner", username,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, nil
}

// Update replaces the mutable fields of an owned debt. The id and
// owner are immutable.
func (s *Debt) Update(ctx context.Context, username, debtID string, params DebtParams) (model.Debt, error) {
	if err := validateDebtParams(params); err != nil {
		return model.Debt{}, err
	}

	debt, err := s.Get(ctx, username, debtID)
	if err != nil {
		return model.Debt{}, err
	}

	debt.Name = params.Name
	debt.Principal = params.Principal
	debt.InterestRate = params.InterestRate
	debt.StartDate = params.StartDate
	debt.EndDate = params.EndDate
	debt.Description = params.Description
	debt.Creditor = params.Creditor
	debt.PaymentFrequency = params.PaymentFrequency
	debt.PaymentAmount = params.PaymentAmount
	debt.MinimumPayment = params.MinimumPayment
	debt.CurrentBalance = params.CurrentBalance
	debt.UpdatedAt = time.Now()

	updated, err := s.debts.Update(ctx, debt)
	if err != nil {
		s.logger.Error("Debt service: failed to update debt",
			"owner", username,
			"debt_id", debtID,
			"error", err.Error())
		return model.Debt{}, fmt.Errorf("failed to update debt: %w", err)
	}

	return updated, nil
}

// Delete removes an owned debt.
func (s *Debt) Delete(ctx context.Context, username, debtID string) error {
	if _, err := s.Get(ctx, username, debtID); err != nil {
		return err
	}

	if err := s.debts.Delete(ctx, debtID); err != nil {
		s.logger.Error("Debt service: failed to delete debt",
			"owner", username,
			"debt_id", debtID,
			"error", err.Error())
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	s.logger.Info("Debt service: debt deleted",
		"owner", username,
		"debt_id", debtID)

	return nil
}

func validateDebtParams(params DebtParams) error {
	if params.Name == "" {
		return fmt.Errorf("%w: debt name is required", model.ErrValidation)
	}
	if _, ok := paymentFrequencies[params.PaymentFrequency]; !ok {
		return fmt.Errorf("%w: invalid payment frequency %q", model.ErrValidation, params.PaymentFrequency)
	}
	if err := requirePositiveDecimal("principal", params.Principal); err != nil {
		return err
	}
	if err := requireDecimal("interest_rate", params.InterestRate); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"payment_amount":  params.PaymentAmount,
		"minimum_payment": params.MinimumPayment,
	} {
		if value == "" {
			continue
		}
		if err := requirePositiveDecimal(field, value); err != nil {
			return err
		}
	}
	if params.CurrentBalance != "" {
		if err := requireDecimal("current_balance", params.CurrentBalance); err != nil {
			return err
		}
	}
	return nil
}

func requirePositiveDecimal(field, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("%w: %s must be a positive decimal", model.ErrValidation, field)
	}
	return nil
}

func requireDecimal(field, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("%w: %s must be a non-negative decimal", model.ErrValidation, field)
	}
	return nil
}

