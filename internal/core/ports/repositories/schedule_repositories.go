package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// ScheduleReader defines read operations for obligation schedules.
type ScheduleReader interface {
	// FindScheduleByID retrieves a single schedule.
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.ObligationSchedule, error)

	// ListOpenSchedules retrieves non-cancelled, non-paid schedules for a
	// counterparty in a given currency, for allocation candidate selection.
	ListOpenSchedules(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, currencyCode string) ([]domain.ObligationSchedule, error)

	// ListSchedulesByQuote retrieves the installment plan generated for a quote.
	ListSchedulesByQuote(ctx context.Context, quoteID string) ([]domain.ObligationSchedule, error)

	// SumAllocationsByScheduleID sums all allocation amounts pointing at the schedule.
	SumAllocationsByScheduleID(ctx context.Context, scheduleID string) (int64, error)
}

// ScheduleWriter defines write operations for obligation schedules.
type ScheduleWriter interface {
	// SaveSchedules persists the schedules of a newly generated installment plan.
	SaveSchedules(ctx context.Context, schedules []domain.ObligationSchedule) error

	// UpdateSchedulePaymentState persists paidAmount, status, paidDate and the
	// observed settlement currency after a recompute.
	UpdateSchedulePaymentState(ctx context.Context, schedule domain.ObligationSchedule) error

	// CancelSchedule marks a schedule cancelled. Schedules are never deleted.
	CancelSchedule(ctx context.Context, scheduleID string, updatedByUserID string, updatedAt time.Time) error
}

// ScheduleTxOps are the operations the allocation engine runs inside the
// settlement transaction, against locked rows.
type ScheduleTxOps interface {
	// FindSchedulesByIDsForUpdate retrieves schedules by IDs and locks the rows
	// (SELECT ... FOR UPDATE). Must be called within a transaction; overfill
	// invariants are re-validated against these fresh reads.
	FindSchedulesByIDsForUpdate(ctx context.Context, tx pgx.Tx, scheduleIDs []string) (map[string]domain.ObligationSchedule, error)

	// SumAllocationsByScheduleIDTx sums allocations for a schedule within the transaction.
	SumAllocationsByScheduleIDTx(ctx context.Context, tx pgx.Tx, scheduleID string) (int64, error)

	// UpdateSchedulePaymentStateTx is UpdateSchedulePaymentState within the transaction.
	UpdateSchedulePaymentStateTx(ctx context.Context, tx pgx.Tx, schedule domain.ObligationSchedule) error
}

// ScheduleRepositoryFacade combines all schedule repository interfaces.
type ScheduleRepositoryFacade interface {
	ScheduleReader
	ScheduleWriter
	ScheduleTxOps
}

// ScheduleRepositoryWithTx extends the facade with transaction management.
type ScheduleRepositoryWithTx interface {
	ScheduleRepositoryFacade
	TransactionManager
}
