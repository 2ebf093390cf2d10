package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

var _ model.DebtStore = (*DebtRepository)(nil)

// DebtRepository stores debt records. Monetary columns are NUMERIC in
// the database and decimal strings in the model; casts at the query
// boundary keep the precision intact.
type DebtRepository struct {
	db *Connection
}

func NewDebtRepository(db *Connection) *DebtRepository {
	return &DebtRepository{
		db: db,
	}
}

const debtColumns = `id, owner_username, name, principal::text, interest_rate::text,
			  start_date, end_date, description, creditor, payment_frequency,
			  COALESCE(payment_amount::text, ''), COALESCE(minimum_payment::text, ''),
			  COALESCE(current_balance::text, ''), created_at, updated_at`

func scanDebt(row pgx.Row) (model.Debt, error) {
	var debt model.Debt
	err := row.Scan(
		&debt.ID, &debt.OwnerUsername, &debt.Name, &debt.Principal, &debt.InterestRate,
		&debt.StartDate, &debt.EndDate, &debt.Description, &debt.Creditor, &debt.PaymentFrequency,
		&debt.PaymentAmount, &debt.MinimumPayment, &debt.CurrentBalance,
		&debt.CreatedAt, &debt.UpdatedAt,
	)
	return debt, err
}

func (r *DebtRepository) GetByID(ctx context.Context, id string) (model.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1`

	debt, err := scanDebt(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Debt{}, model.ErrNotFound
		}
		return model.Debt{}, fmt.Errorf("failed to get debt by id: %w", err)
	}

	return debt, nil
}

func (r *DebtRepository) ListByOwner(ctx context.Context, ownerUsername string) ([]model.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE owner_username = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := make([]model.Debt, 0)
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read debts: %w", err)
	}

	return debts, nil
}

func (r *DebtRepository) Create(ctx context.Context, debt model.Debt) (model.Debt, error) {
	query := `INSERT INTO debts (id, owner_username, name, principal, interest_rate,
			  start_date, end_date, description, creditor, payment_frequency,
			  payment_amount, minimum_payment, current_balance, created_at, updated_at)
			  VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8, $9, $10,
			  NULLIF($11, '')::numeric, NULLIF($12, '')::numeric, NULLIF($13, '')::numeric, $14, $15)
			  RETURNING ` + debtColumns

	saved, err := scanDebt(r.db.QueryRow(ctx, query,
		debt.ID, debt.OwnerUsername, debt.Name, debt.Principal, debt.InterestRate,
		debt.StartDate, debt.EndDate, debt.Description, debt.Creditor, debt.PaymentFrequency,
		debt.PaymentAmount, debt.MinimumPayment, debt.CurrentBalance,
		debt.CreatedAt, debt.UpdatedAt,
	))
	if err != nil {
		return model.Debt{}, fmt.Errorf("failed to create debt: %w", err)
	}

	return saved, nil
}

func (r *DebtRepository) Update(ctx context.Context, debt model.Debt) (model.Debt, error) {
	query := `UPDATE debts SET name = $2, principal = $3::numeric, interest_rate = $4::numeric,
			  start_date = $5, end_date = $6, description = $7, creditor = $8,
			  payment_frequency = $9, payment_amount = NULLIF($10, '')::numeric,
			  minimum_payment = NULLIF($11, '')::numeric, current_balance = NULLIF($12, '')::numeric,
			  updated_at = $13
			  WHERE id = $1
			  RETURNING ` + debtColumns

	saved, err := scanDebt(r.db.QueryRow(ctx, query,
		debt.ID, debt.Name, debt.Principal, debt.InterestRate,
		debt.StartDate, debt.EndDate, debt.Description, debt.Creditor,
		debt.PaymentFrequency, debt.PaymentAmount, debt.MinimumPayment, debt.CurrentBalance,
		debt.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Debt{}, model.ErrNotFound
		}
		return model.Debt{}, fmt.Errorf("failed to update debt: %w", err)
	}

	return saved, nil
}

func (r *DebtRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
