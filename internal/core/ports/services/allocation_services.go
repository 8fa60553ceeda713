package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// AllocationSvcFacade is the payment allocation engine: it computes how a
// payment's amount is distributed across open schedules and keeps schedule
// state consistent with the allocation records.
type AllocationSvcFacade interface {
	// SuggestAllocation proposes a greedy oldest-debt-first distribution of the
	// payment's unallocated remainder over open matching schedules.
	SuggestAllocation(ctx context.Context, paymentID string, filters dto.SuggestAllocationFilters) ([]domain.AllocationSuggestion, error)

	// AllocatePayment applies an explicit allocation set atomically.
	// Either every pair commits, or nothing does.
	AllocatePayment(ctx context.Context, paymentID string, inputs []dto.AllocationInput, userID string) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error)

	// ApplyAllocationsTx is the engine core running inside a caller-owned
	// settlement transaction: it re-reads payment and schedules under row
	// locks, re-validates the overfill invariants against those fresh reads,
	// inserts the allocations and recomputes every touched schedule.
	ApplyAllocationsTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment, inputs []dto.AllocationInput, userID string, now time.Time) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error)

	// RefreshScheduleStatus recomputes a schedule's paid amount and status from
	// its allocations. Idempotent: pure recomputation, not a delta.
	RefreshScheduleStatus(ctx context.Context, scheduleID string, userID string) (*domain.ObligationSchedule, error)

	// GetRemainingAmount returns amount minus the allocation sum, never negative.
	GetRemainingAmount(ctx context.Context, scheduleID string) (int64, error)

	// GetAllocationStats aggregates a payment's allocations for reporting.
	GetAllocationStats(ctx context.Context, paymentID string) (*domain.AllocationStats, error)
}
