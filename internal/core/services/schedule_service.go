package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// ScheduleService manages obligation schedules: dated installments generated
// from validated quotes that payments are later allocated against.
type ScheduleService struct {
	scheduleRepo     portsrepo.ScheduleRepositoryFacade
	counterpartyRepo portsrepo.CounterpartyReader
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(scheduleRepo portsrepo.ScheduleRepositoryFacade, counterpartyRepo portsrepo.CounterpartyReader) *ScheduleService {
	return &ScheduleService{
		scheduleRepo:     scheduleRepo,
		counterpartyRepo: counterpartyRepo,
	}
}

// CreateInstallmentPlan generates the schedules for a quote. The installment
// amounts must sum exactly to the quote total; amounts are integer minor units
// so the check is exact, with no tolerance.
func (s *ScheduleService) CreateInstallmentPlan(ctx context.Context, req dto.CreateInstallmentPlanRequest, creatorUserID string) ([]domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.CounterpartyKind.IsValid() {
		return nil, apperrors.NewAppError(400, "unknown counterparty kind", apperrors.ErrValidation)
	}
	if !domain.IsSupportedCurrency(req.CurrencyCode) {
		return nil, apperrors.NewAppError(400, "unsupported currency", apperrors.ErrValidation)
	}
	if _, err := s.counterpartyRepo.FindCounterparty(ctx, req.CounterpartyKind, req.CounterpartyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("counterparty not found")
		}
		return nil, err
	}

	var total int64
	for _, inst := range req.Installments {
		if inst.Amount <= 0 {
			return nil, apperrors.NewAppError(400, "installment amount must be positive", apperrors.ErrInvalidAmount)
		}
		total += inst.Amount
	}
	if total != req.QuoteTotal {
		return nil, apperrors.NewAppError(422,
			fmt.Sprintf("installments sum to %d but quote total is %d", total, req.QuoteTotal),
			apperrors.ErrScheduleTotalMismatch)
	}

	now := time.Now()
	quoteID := req.QuoteID
	schedules := make([]domain.ObligationSchedule, len(req.Installments))
	for i, inst := range req.Installments {
		schedules[i] = domain.ObligationSchedule{
			ScheduleID:       uuid.NewString(),
			CounterpartyKind: req.CounterpartyKind,
			CounterpartyID:   req.CounterpartyID,
			QuoteID:          &quoteID,
			Amount:           inst.Amount,
			CurrencyCode:     req.CurrencyCode,
			DueDate:          inst.DueDate,
			PaidAmount:       0,
			Status:           domain.DeriveScheduleStatus(0, inst.Amount, inst.DueDate, now),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	if err := s.scheduleRepo.SaveSchedules(ctx, schedules); err != nil {
		logger.Error("Failed to save installment plan", slog.String("error", err.Error()), slog.String("quote_id", req.QuoteID))
		return nil, err
	}

	logger.Info("Installment plan created",
		slog.String("quote_id", req.QuoteID),
		slog.Int("installments", len(schedules)),
		slog.Int64("total", total),
	)
	return schedules, nil
}

// GetScheduleByID retrieves a schedule.
func (s *ScheduleService) GetScheduleByID(ctx context.Context, scheduleID string) (*domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find schedule", slog.String("error", err.Error()), slog.String("schedule_id", scheduleID))
		}
		return nil, err
	}
	return schedule, nil
}

// ListOpenSchedules retrieves the allocation candidates for a counterparty in
// a given currency, sorted in allocation order.
func (s *ScheduleService) ListOpenSchedules(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, currencyCode string) ([]domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedules, err := s.scheduleRepo.ListOpenSchedules(ctx, kind, counterpartyID, currencyCode)
	if err != nil {
		logger.Error("Failed to list open schedules", slog.String("error", err.Error()), slog.String("counterparty_id", counterpartyID))
		return nil, err
	}

	// Derive the current status of each candidate; the stored value lags for
	// schedules that went overdue without being touched.
	now := time.Now()
	for i := range schedules {
		schedules[i].Status = domain.DeriveScheduleStatus(schedules[i].PaidAmount, schedules[i].Amount, schedules[i].DueDate, now)
	}
	domain.OrderForAllocation(schedules)
	return schedules, nil
}

// ListSchedulesByQuote retrieves the installment plan generated for a quote,
// due date order.
func (s *ScheduleService) ListSchedulesByQuote(ctx context.Context, quoteID string) ([]domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedules, err := s.scheduleRepo.ListSchedulesByQuote(ctx, quoteID)
	if err != nil {
		logger.Error("Failed to list schedules by quote", slog.String("error", err.Error()), slog.String("quote_id", quoteID))
		return nil, err
	}
	if schedules == nil {
		return []domain.ObligationSchedule{}, nil
	}
	return schedules, nil
}

// RecordSettlementCurrency notes the currency a counterparty actually settles
// in. No conversion happens anywhere; the observed currency only changes which
// payments the schedule accepts allocations from. Recording the contractual
// currency clears a previous observation.
func (s *ScheduleService) RecordSettlementCurrency(ctx context.Context, scheduleID string, currencyCode string, userID string) (*domain.ObligationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsSupportedCurrency(currencyCode) {
		return nil, apperrors.NewAppError(400, "unsupported currency", apperrors.ErrValidation)
	}

	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if currencyCode == schedule.CurrencyCode {
		schedule.SettlementCurrencyCode = nil
	} else {
		schedule.SettlementCurrencyCode = &currencyCode
	}

	now := time.Now()
	schedule.LastUpdatedAt = now
	schedule.LastUpdatedBy = userID

	if err := s.scheduleRepo.UpdateSchedulePaymentState(ctx, *schedule); err != nil {
		logger.Error("Failed to record settlement currency", slog.String("error", err.Error()), slog.String("schedule_id", scheduleID))
		return nil, err
	}

	logger.Info("Settlement currency recorded",
		slog.String("schedule_id", scheduleID),
		slog.String("currency", currencyCode),
	)
	return schedule, nil
}

// CancelSchedule marks a schedule cancelled. Schedules are never deleted,
// precisely so that cancellation stays available once allocations exist:
// the allocation history remains resolvable while the schedule stops
// accepting further allocations.
func (s *ScheduleService) CancelSchedule(ctx context.Context, scheduleID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.Cancelled {
		return nil // already cancelled, idempotent
	}

	if err := s.scheduleRepo.CancelSchedule(ctx, scheduleID, userID, time.Now()); err != nil {
		logger.Error("Failed to cancel schedule", slog.String("error", err.Error()), slog.String("schedule_id", scheduleID))
		return err
	}

	logger.Info("Schedule cancelled", slog.String("schedule_id", scheduleID))
	return nil
}
