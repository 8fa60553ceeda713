package services

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// ScheduleSvcFacade exposes obligation schedule management.
type ScheduleSvcFacade interface {
	// CreateInstallmentPlan generates the schedules for a validated quote.
	// The installment amounts must sum exactly to the quote total.
	CreateInstallmentPlan(ctx context.Context, req dto.CreateInstallmentPlanRequest, creatorUserID string) ([]domain.ObligationSchedule, error)

	// GetScheduleByID retrieves a schedule.
	GetScheduleByID(ctx context.Context, scheduleID string) (*domain.ObligationSchedule, error)

	// ListOpenSchedules retrieves allocation candidates for a counterparty.
	ListOpenSchedules(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, currencyCode string) ([]domain.ObligationSchedule, error)

	// ListSchedulesByQuote retrieves the installment plan generated for a quote.
	ListSchedulesByQuote(ctx context.Context, quoteID string) ([]domain.ObligationSchedule, error)

	// RecordSettlementCurrency notes the currency the counterparty actually
	// settles the schedule in when it differs from the contractual one.
	RecordSettlementCurrency(ctx context.Context, scheduleID string, currencyCode string, userID string) (*domain.ObligationSchedule, error)

	// CancelSchedule marks a schedule cancelled (never deleted).
	CancelSchedule(ctx context.Context, scheduleID string, userID string) error
}
