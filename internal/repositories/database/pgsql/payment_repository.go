package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/models"
	"github.com/studiaconsult/ledger_backend/internal/utils/mapping"
	"github.com/studiaconsult/ledger_backend/internal/utils/pagination"
)

// PgxPaymentRepository persists payments and their allocations.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, counterparty_kind, counterparty_id, amount, currency_code, payment_date, bank_account_id, validated_by, status, notes, created_at, created_by, last_updated_at, last_updated_by`

const allocationColumns = `allocation_id, payment_id, schedule_id, amount, currency_code, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.CounterpartyKind, &m.CounterpartyID,
		&m.Amount, &m.CurrencyCode, &m.PaymentDate,
		&m.BankAccountID, &m.ValidatedBy, &m.Status, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SavePayment inserts a new payment record.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID, m.CounterpartyKind, m.CounterpartyID,
		m.Amount, m.CurrencyCode, m.PaymentDate,
		m.BankAccountID, m.ValidatedBy, m.Status, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "payment already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// FindPaymentByID retrieves a single payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	return r.findPayment(ctx, r.Pool, query, paymentID)
}

// FindPaymentByIDForUpdate retrieves a payment and locks its row for the
// duration of the transaction.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	return r.findPayment(ctx, tx, query, paymentID)
}

func (r *PgxPaymentRepository) findPayment(ctx context.Context, db execer, query string, paymentID string) (*domain.Payment, error) {
	m, err := scanPayment(db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// ListPayments retrieves a page of payments, newest first, with keyset
// pagination on (payment_date, created_at).
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	var args []any

	if nextToken != nil && *nextToken != "" {
		paymentDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", apperrors.ErrValidation)
		}
		query += ` WHERE (payment_date, created_at) < ($1, $2)`
		args = append(args, paymentDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY payment_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	var token *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		t := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		token = &t
	}
	return payments, token, nil
}

// FindAllocationsByPaymentID retrieves all allocations of a payment.
func (r *PgxPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY created_at, allocation_id;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []domain.PaymentAllocation
	for rows.Next() {
		var m models.PaymentAllocation
		err := rows.Scan(
			&m.AllocationID, &m.PaymentID, &m.ScheduleID, &m.Amount, &m.CurrencyCode,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}

// SumAllocationsByPaymentID sums the allocation amounts of a payment.
func (r *PgxPaymentRepository) SumAllocationsByPaymentID(ctx context.Context, paymentID string) (int64, error) {
	return sumPaymentAllocations(ctx, r.Pool, paymentID)
}

// SumAllocationsByPaymentIDTx is SumAllocationsByPaymentID within the transaction.
func (r *PgxPaymentRepository) SumAllocationsByPaymentIDTx(ctx context.Context, tx pgx.Tx, paymentID string) (int64, error) {
	return sumPaymentAllocations(ctx, tx, paymentID)
}

func sumPaymentAllocations(ctx context.Context, db execer, paymentID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_allocations WHERE payment_id = $1;`
	var sum int64
	if err := db.QueryRow(ctx, query, paymentID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum payment allocations: %w", err)
	}
	return sum, nil
}

// FindDuplicateCandidates retrieves non-rejected payments with the same
// counterparty, amount, currency and payment date.
func (r *PgxPaymentRepository) FindDuplicateCandidates(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, amount int64, currencyCode string, paymentDate time.Time) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE counterparty_kind = $1
		  AND counterparty_id = $2
		  AND amount = $3
		  AND currency_code = $4
		  AND payment_date::date = $5::date
		  AND status != 'REJECTED';
	`
	rows, err := r.Pool.Query(ctx, query, string(kind), counterpartyID, amount, currencyCode, paymentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate candidates: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// SaveAllocationsTx inserts allocation rows within the settlement transaction.
func (r *PgxPaymentRepository) SaveAllocationsTx(ctx context.Context, tx pgx.Tx, allocations []domain.PaymentAllocation) error {
	query := `
		INSERT INTO payment_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, allocation := range allocations {
		m := mapping.ToModelAllocation(allocation)
		_, err := tx.Exec(ctx, query,
			m.AllocationID, m.PaymentID, m.ScheduleID, m.Amount, m.CurrencyCode,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return apperrors.NewAppError(409, "allocation already exists", apperrors.ErrDuplicate)
				case "23503":
					return apperrors.NewNotFoundError("referenced payment or schedule does not exist")
				}
			}
			return fmt.Errorf("failed to save allocation: %w", err)
		}
	}
	return nil
}

// The WHERE status guard makes the flip conditional: a payment that was
// already validated or rejected by a concurrent request matches zero rows
// instead of being flipped twice.
const updatePaymentStatusQuery = `
	UPDATE payments
	SET status = $2,
	    validated_by = CASE WHEN $2 = 'VALIDATED' THEN $3 ELSE validated_by END,
	    last_updated_at = $4, last_updated_by = $3
	WHERE payment_id = $1 AND status = 'PENDING_VALIDATION';
`

// UpdatePaymentStatus flips a payment's status.
func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, actorUserID string, updatedAt time.Time) error {
	return updatePaymentStatus(ctx, r.Pool, paymentID, status, actorUserID, updatedAt)
}

// UpdatePaymentStatusTx is UpdatePaymentStatus within the transaction.
func (r *PgxPaymentRepository) UpdatePaymentStatusTx(ctx context.Context, tx pgx.Tx, paymentID string, status domain.PaymentStatus, actorUserID string, updatedAt time.Time) error {
	return updatePaymentStatus(ctx, tx, paymentID, status, actorUserID, updatedAt)
}

func updatePaymentStatus(ctx context.Context, db rowExecer, paymentID string, status domain.PaymentStatus, actorUserID string, updatedAt time.Time) error {
	tag, err := db.Exec(ctx, updatePaymentStatusQuery, paymentID, string(status), actorUserID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, fmt.Sprintf("payment %s is not pending validation", paymentID), apperrors.ErrConflict)
	}
	return nil
}
