package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// AllocationService is the payment allocation engine. It distributes payment
// amounts over open schedules, enforces the overfill invariants and keeps
// schedule paid/status state consistent with the allocation records.
//
// All mutation happens inside a database transaction against locked rows, so
// concurrent settlements of the same payment or schedule serialize instead of
// double-allocating.
type AllocationService struct {
	scheduleRepo portsrepo.ScheduleRepositoryWithTx
	paymentRepo  portsrepo.PaymentRepositoryFacade
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(scheduleRepo portsrepo.ScheduleRepositoryWithTx, paymentRepo portsrepo.PaymentRepositoryFacade) *AllocationService {
	return &AllocationService{
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
	}
}

// SuggestAllocation proposes a distribution of the payment's unallocated
// remainder over open matching schedules: OVERDUE first, then PARTIAL, then
// PENDING, earliest due date first. Each schedule receives at most its
// remaining amount; the proposal never exceeds the payment remainder.
func (s *AllocationService) SuggestAllocation(ctx context.Context, paymentID string, filters dto.SuggestAllocationFilters) ([]domain.AllocationSuggestion, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	allocated, err := s.paymentRepo.SumAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	remainder := payment.Amount - allocated
	if remainder <= 0 {
		return []domain.AllocationSuggestion{}, nil
	}

	kind := payment.CounterpartyKind
	counterpartyID := payment.CounterpartyID
	if filters.CounterpartyKind != "" {
		kind = filters.CounterpartyKind
	}
	if filters.CounterpartyID != "" {
		counterpartyID = filters.CounterpartyID
	}

	schedules, err := s.scheduleRepo.ListOpenSchedules(ctx, kind, counterpartyID, payment.CurrencyCode)
	if err != nil {
		logger.Error("Failed to list open schedules for suggestion", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	// A schedule goes overdue by time passing, not by being touched, so the
	// stored status can lag. Derive every candidate's status before ranking.
	now := time.Now()
	for i := range schedules {
		schedules[i].Status = domain.DeriveScheduleStatus(schedules[i].PaidAmount, schedules[i].Amount, schedules[i].DueDate, now)
	}
	domain.OrderForAllocation(schedules)

	suggestions := make([]domain.AllocationSuggestion, 0, len(schedules))
	for _, schedule := range schedules {
		if remainder == 0 {
			break
		}
		slice := schedule.RemainingAmount()
		if slice == 0 {
			continue
		}
		if slice > remainder {
			slice = remainder
		}
		suggestions = append(suggestions, domain.AllocationSuggestion{
			ScheduleID:   schedule.ScheduleID,
			Amount:       slice,
			CurrencyCode: schedule.CurrencyCode,
			DueDate:      schedule.DueDate,
			Status:       schedule.Status,
		})
		remainder -= slice
	}

	return suggestions, nil
}

// AllocatePayment applies an explicit allocation set atomically: all pairs
// commit together or none do.
func (s *AllocationService) AllocatePayment(ctx context.Context, paymentID string, inputs []dto.AllocationInput, userID string) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.scheduleRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin allocation transaction", slog.String("error", err.Error()))
		return nil, nil, err
	}
	defer func() {
		// no-op if already committed
		_ = s.scheduleRepo.Rollback(ctx, tx)
	}()

	allocations, schedules, err := s.ApplyAllocationsTx(ctx, tx, payment, inputs, userID, time.Now())
	if err != nil {
		return nil, nil, err
	}

	if err := s.scheduleRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit allocation transaction", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, nil, err
	}

	logger.Info("Payment allocated",
		slog.String("payment_id", paymentID),
		slog.Int("allocations", len(allocations)),
	)
	return allocations, schedules, nil
}

// ApplyAllocationsTx runs the engine core inside a caller-owned transaction.
// The payment and every target schedule are re-read under row locks and the
// overfill invariants re-validated against those fresh reads, so a state
// observed before the transaction began can never be trusted into an overfill.
func (s *AllocationService) ApplyAllocationsTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment, inputs []dto.AllocationInput, userID string, now time.Time) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error) {
	if len(inputs) == 0 {
		return nil, nil, apperrors.NewAppError(400, "at least one allocation is required", apperrors.ErrValidation)
	}

	// Collapse duplicate schedule IDs so the per-schedule check sees the
	// combined amount.
	perSchedule := make(map[string]int64, len(inputs))
	scheduleIDs := make([]string, 0, len(inputs))
	var requested int64
	for _, input := range inputs {
		if input.Amount <= 0 {
			return nil, nil, apperrors.NewAppError(400, "allocation amount must be positive", apperrors.ErrInvalidAmount)
		}
		if _, seen := perSchedule[input.ScheduleID]; !seen {
			scheduleIDs = append(scheduleIDs, input.ScheduleID)
		}
		perSchedule[input.ScheduleID] += input.Amount
		requested += input.Amount
	}

	// Fresh read of the payment under lock.
	lockedPayment, err := s.paymentRepo.FindPaymentByIDForUpdate(ctx, tx, payment.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	// The pre-transaction status check can go stale under a concurrent
	// settlement; only the locked read decides.
	if lockedPayment.Status != domain.PaymentPendingValidation {
		return nil, nil, apperrors.NewAppError(409, "payment is not pending validation", apperrors.ErrConflict)
	}

	alreadyAllocated, err := s.paymentRepo.SumAllocationsByPaymentIDTx(ctx, tx, lockedPayment.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	if alreadyAllocated+requested > lockedPayment.Amount {
		return nil, nil, apperrors.NewAppError(422,
			fmt.Sprintf("allocations total %d exceeds payment amount %d", alreadyAllocated+requested, lockedPayment.Amount),
			apperrors.ErrAllocationExceedsPayment)
	}

	// Fresh reads of every target schedule under lock.
	lockedSchedules, err := s.scheduleRepo.FindSchedulesByIDsForUpdate(ctx, tx, scheduleIDs)
	if err != nil {
		return nil, nil, err
	}

	for _, scheduleID := range scheduleIDs {
		schedule, ok := lockedSchedules[scheduleID]
		if !ok {
			return nil, nil, apperrors.NewNotFoundError("schedule " + scheduleID + " not found")
		}
		if !schedule.IsOpen() {
			return nil, nil, apperrors.NewAppError(409, "schedule "+scheduleID+" is not open for allocation", apperrors.ErrConflict)
		}
		if schedule.CounterpartyKind != lockedPayment.CounterpartyKind || schedule.CounterpartyID != lockedPayment.CounterpartyID {
			return nil, nil, apperrors.NewAppError(422, "schedule "+scheduleID+" belongs to a different counterparty", apperrors.ErrValidation)
		}
		if effectiveCurrency(schedule) != lockedPayment.CurrencyCode {
			return nil, nil, apperrors.NewAppError(422,
				fmt.Sprintf("payment currency %s does not match schedule currency %s", lockedPayment.CurrencyCode, effectiveCurrency(schedule)),
				apperrors.ErrCurrencyMismatch)
		}
		if perSchedule[scheduleID] > schedule.RemainingAmount() {
			return nil, nil, apperrors.NewAppError(422,
				fmt.Sprintf("allocation %d exceeds remaining amount %d of schedule %s", perSchedule[scheduleID], schedule.RemainingAmount(), scheduleID),
				apperrors.ErrAllocationExceedsSchedule)
		}
	}

	// Invariants hold against the locked rows; write the allocation records.
	allocations := make([]domain.PaymentAllocation, len(inputs))
	for i, input := range inputs {
		allocations[i] = domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    lockedPayment.PaymentID,
			ScheduleID:   input.ScheduleID,
			Amount:       input.Amount,
			CurrencyCode: lockedPayment.CurrencyCode,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	if err := s.paymentRepo.SaveAllocationsTx(ctx, tx, allocations); err != nil {
		return nil, nil, err
	}

	// Recompute every touched schedule from its allocation sum. Recomputation
	// rather than increments keeps the operation idempotent.
	updated := make([]domain.ObligationSchedule, 0, len(scheduleIDs))
	for _, scheduleID := range scheduleIDs {
		schedule := lockedSchedules[scheduleID]

		paid, err := s.scheduleRepo.SumAllocationsByScheduleIDTx(ctx, tx, scheduleID)
		if err != nil {
			return nil, nil, err
		}

		schedule.PaidAmount = paid
		previousStatus := schedule.Status
		schedule.Status = domain.DeriveScheduleStatus(paid, schedule.Amount, schedule.DueDate, now)
		if schedule.Status == domain.SchedulePaid && previousStatus != domain.SchedulePaid {
			paidDate := now
			schedule.PaidDate = &paidDate
		}
		schedule.LastUpdatedAt = now
		schedule.LastUpdatedBy = userID

		if err := s.scheduleRepo.UpdateSchedulePaymentStateTx(ctx, tx, schedule); err != nil {
			return nil, nil, err
		}
		updated = append(updated, schedule)
	}

	return allocations, updated, nil
}

// effectiveCurrency is the currency allocations must match: the observed
// settlement currency when one was recorded, otherwise the contractual one.
func effectiveCurrency(s domain.ObligationSchedule) string {
	if s.SettlementCurrencyCode != nil && *s.SettlementCurrencyCode != "" {
		return *s.SettlementCurrencyCode
	}
	return s.CurrencyCode
}

// RefreshScheduleStatus recomputes a schedule's paid amount and status from
// its allocation records. Pure recomputation: running it twice in a row
// yields the same state.
func (s *AllocationService) RefreshScheduleStatus(ctx context.Context, scheduleID string, userID string) (*domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	paid, err := s.scheduleRepo.SumAllocationsByScheduleID(ctx, scheduleID)
	if err != nil {
		logger.Error("Failed to sum allocations", slog.String("error", err.Error()), slog.String("schedule_id", scheduleID))
		return nil, err
	}

	now := time.Now()
	schedule.PaidAmount = paid
	schedule.Status = domain.DeriveScheduleStatus(paid, schedule.Amount, schedule.DueDate, now)
	switch {
	case schedule.Status == domain.SchedulePaid && schedule.PaidDate == nil:
		schedule.PaidDate = &now
	case schedule.Status != domain.SchedulePaid:
		schedule.PaidDate = nil
	}
	schedule.LastUpdatedAt = now
	schedule.LastUpdatedBy = userID

	if err := s.scheduleRepo.UpdateSchedulePaymentState(ctx, *schedule); err != nil {
		logger.Error("Failed to persist schedule state", slog.String("error", err.Error()), slog.String("schedule_id", scheduleID))
		return nil, err
	}

	return schedule, nil
}

// GetRemainingAmount returns the schedule target minus its allocation sum,
// never negative.
func (s *AllocationService) GetRemainingAmount(ctx context.Context, scheduleID string) (int64, error) {
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return 0, err
	}

	paid, err := s.scheduleRepo.SumAllocationsByScheduleID(ctx, scheduleID)
	if err != nil {
		return 0, err
	}

	remaining := schedule.Amount - paid
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GetAllocationStats aggregates a payment's allocations for reporting.
func (s *AllocationService) GetAllocationStats(ctx context.Context, paymentID string) (*domain.AllocationStats, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	stats := domain.AllocationStats{PaymentID: paymentID}
	seen := make(map[string]bool)
	for _, alloc := range allocations {
		stats.TotalAllocated += alloc.Amount
		if seen[alloc.ScheduleID] {
			continue
		}
		seen[alloc.ScheduleID] = true

		schedule, err := s.scheduleRepo.FindScheduleByID(ctx, alloc.ScheduleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		switch schedule.Status {
		case domain.SchedulePaid:
			stats.SchedulesFullyPaid++
		case domain.SchedulePartial:
			stats.SchedulesPartiallyPaid++
		}
	}

	stats.RemainingAmount = payment.Amount - stats.TotalAllocated
	if stats.RemainingAmount < 0 {
		stats.RemainingAmount = 0
	}
	return &stats, nil
}
