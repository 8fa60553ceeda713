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
)

// PgxScheduleRepository persists obligation schedules.
type PgxScheduleRepository struct {
	BaseRepository
}

func newPgxScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryWithTx {
	return &PgxScheduleRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ScheduleRepositoryWithTx = (*PgxScheduleRepository)(nil)

const scheduleColumns = `schedule_id, counterparty_kind, counterparty_id, quote_id, amount, currency_code, settlement_currency_code, due_date, paid_amount, status, paid_date, cancelled, created_at, created_by, last_updated_at, last_updated_by`

func scanSchedule(row pgx.Row) (models.ObligationSchedule, error) {
	var m models.ObligationSchedule
	err := row.Scan(
		&m.ScheduleID, &m.CounterpartyKind, &m.CounterpartyID, &m.QuoteID,
		&m.Amount, &m.CurrencyCode, &m.SettlementCurrencyCode,
		&m.DueDate, &m.PaidAmount, &m.Status, &m.PaidDate, &m.Cancelled,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveSchedules inserts the schedules of one installment plan in a single
// transaction: the plan exists fully or not at all.
func (r *PgxScheduleRepository) SaveSchedules(ctx context.Context, schedules []domain.ObligationSchedule) error {
	if len(schedules) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO payment_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, schedule := range schedules {
		m := mapping.ToModelSchedule(schedule)
		_, err := tx.Exec(ctx, query,
			m.ScheduleID, m.CounterpartyKind, m.CounterpartyID, m.QuoteID,
			m.Amount, m.CurrencyCode, m.SettlementCurrencyCode,
			m.DueDate, m.PaidAmount, m.Status, m.PaidDate, m.Cancelled,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperrors.NewAppError(409, "schedule already exists", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to save schedule: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindScheduleByID retrieves a single schedule.
func (r *PgxScheduleRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.ObligationSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM payment_schedules WHERE schedule_id = $1;`

	m, err := scanSchedule(r.Pool.QueryRow(ctx, query, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("schedule %s not found", scheduleID))
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}

	schedule := mapping.ToDomainSchedule(m)
	return &schedule, nil
}

// ListOpenSchedules retrieves non-cancelled, non-paid schedules for a
// counterparty matching the payment currency, either contractually or via the
// recorded settlement currency.
func (r *PgxScheduleRepository) ListOpenSchedules(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, currencyCode string) ([]domain.ObligationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedules
		WHERE counterparty_kind = $1
		  AND counterparty_id = $2
		  AND COALESCE(settlement_currency_code, currency_code) = $3
		  AND cancelled = FALSE
		  AND status != 'PAID'
		ORDER BY due_date, schedule_id;
	`
	return r.querySchedules(ctx, query, string(kind), counterpartyID, currencyCode)
}

// ListSchedulesByQuote retrieves the installment plan generated for a quote.
func (r *PgxScheduleRepository) ListSchedulesByQuote(ctx context.Context, quoteID string) ([]domain.ObligationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedules
		WHERE quote_id = $1
		ORDER BY due_date, schedule_id;
	`
	return r.querySchedules(ctx, query, quoteID)
}

func (r *PgxScheduleRepository) querySchedules(ctx context.Context, query string, args ...any) ([]domain.ObligationSchedule, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []domain.ObligationSchedule
	for rows.Next() {
		m, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, mapping.ToDomainSchedule(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

// SumAllocationsByScheduleID sums all allocation amounts pointing at the schedule.
func (r *PgxScheduleRepository) SumAllocationsByScheduleID(ctx context.Context, scheduleID string) (int64, error) {
	return sumScheduleAllocations(ctx, r.Pool, scheduleID)
}

// SumAllocationsByScheduleIDTx is SumAllocationsByScheduleID within the transaction.
func (r *PgxScheduleRepository) SumAllocationsByScheduleIDTx(ctx context.Context, tx pgx.Tx, scheduleID string) (int64, error) {
	return sumScheduleAllocations(ctx, tx, scheduleID)
}

func sumScheduleAllocations(ctx context.Context, db execer, scheduleID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_allocations WHERE schedule_id = $1;`
	var sum int64
	if err := db.QueryRow(ctx, query, scheduleID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum schedule allocations: %w", err)
	}
	return sum, nil
}

// FindSchedulesByIDsForUpdate retrieves schedules by IDs and locks the rows.
// IDs are sorted by the query so concurrent settlements acquire locks in the
// same order and cannot deadlock each other.
func (r *PgxScheduleRepository) FindSchedulesByIDsForUpdate(ctx context.Context, tx pgx.Tx, scheduleIDs []string) (map[string]domain.ObligationSchedule, error) {
	if len(scheduleIDs) == 0 {
		return map[string]domain.ObligationSchedule{}, nil
	}

	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedules
		WHERE schedule_id = ANY($1)
		ORDER BY schedule_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedules: %w", err)
	}
	defer rows.Close()

	schedules := make(map[string]domain.ObligationSchedule, len(scheduleIDs))
	for rows.Next() {
		m, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules[m.ScheduleID] = mapping.ToDomainSchedule(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

const updateScheduleStateQuery = `
	UPDATE payment_schedules
	SET paid_amount = $2, status = $3, paid_date = $4, settlement_currency_code = $5,
	    last_updated_at = $6, last_updated_by = $7
	WHERE schedule_id = $1;
`

// UpdateSchedulePaymentState persists the recomputed payment state.
func (r *PgxScheduleRepository) UpdateSchedulePaymentState(ctx context.Context, schedule domain.ObligationSchedule) error {
	return updateScheduleState(ctx, r.Pool, schedule)
}

// UpdateSchedulePaymentStateTx is UpdateSchedulePaymentState within the transaction.
func (r *PgxScheduleRepository) UpdateSchedulePaymentStateTx(ctx context.Context, tx pgx.Tx, schedule domain.ObligationSchedule) error {
	return updateScheduleState(ctx, tx, schedule)
}

type rowExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateScheduleState(ctx context.Context, db rowExecer, schedule domain.ObligationSchedule) error {
	m := mapping.ToModelSchedule(schedule)
	tag, err := db.Exec(ctx, updateScheduleStateQuery,
		m.ScheduleID, m.PaidAmount, m.Status, m.PaidDate, m.SettlementCurrencyCode,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("schedule %s not found", schedule.ScheduleID))
	}
	return nil
}

// CancelSchedule marks a schedule cancelled. Rows are never deleted.
func (r *PgxScheduleRepository) CancelSchedule(ctx context.Context, scheduleID string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE payment_schedules
		SET cancelled = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE schedule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, scheduleID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to cancel schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("schedule %s not found", scheduleID))
	}
	return nil
}
