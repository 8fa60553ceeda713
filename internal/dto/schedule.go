package dto

import (
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// InstallmentInput is one line of a requested installment plan.
type InstallmentInput struct {
	Amount  int64     `json:"amount" binding:"required,gt=0"` // Minor units
	DueDate time.Time `json:"dueDate" binding:"required"`
}

// CreateInstallmentPlanRequest asks for a quote to be broken into dated
// installments. The installment amounts must sum exactly to the quote total.
type CreateInstallmentPlanRequest struct {
	QuoteID          string                  `json:"quoteID" binding:"required"`
	QuoteTotal       int64                   `json:"quoteTotal" binding:"required,gt=0"` // Minor units, contractual currency
	CurrencyCode     string                  `json:"currencyCode" binding:"required,currency"`
	CounterpartyKind domain.CounterpartyKind `json:"counterpartyKind" binding:"required,oneof=STUDENT MENTOR PROFESSOR"`
	CounterpartyID   string                  `json:"counterpartyID" binding:"required"`
	Installments     []InstallmentInput      `json:"installments" binding:"required,min=1,dive"`
}

// RecordSettlementCurrencyRequest notes the currency a counterparty actually
// settles a schedule in. Recording the contractual currency clears a previous
// observation.
type RecordSettlementCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currency"`
}

// ScheduleResponse mirrors domain.ObligationSchedule.
type ScheduleResponse struct {
	ScheduleID             string                  `json:"scheduleID"`
	CounterpartyKind       domain.CounterpartyKind `json:"counterpartyKind"`
	CounterpartyID         string                  `json:"counterpartyID"`
	QuoteID                *string                 `json:"quoteID,omitempty"`
	Amount                 int64                   `json:"amount"`
	CurrencyCode           string                  `json:"currencyCode"`
	SettlementCurrencyCode *string                 `json:"settlementCurrencyCode,omitempty"`
	DueDate                time.Time               `json:"dueDate"`
	PaidAmount             int64                   `json:"paidAmount"`
	RemainingAmount        int64                   `json:"remainingAmount"`
	Status                 domain.ScheduleStatus   `json:"status"`
	PaidDate               *time.Time              `json:"paidDate,omitempty"`
	Cancelled              bool                    `json:"cancelled"`
	CreatedAt              time.Time               `json:"createdAt"`
}

// ToScheduleResponse converts a domain.ObligationSchedule.
func ToScheduleResponse(s *domain.ObligationSchedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:             s.ScheduleID,
		CounterpartyKind:       s.CounterpartyKind,
		CounterpartyID:         s.CounterpartyID,
		QuoteID:                s.QuoteID,
		Amount:                 s.Amount,
		CurrencyCode:           s.CurrencyCode,
		SettlementCurrencyCode: s.SettlementCurrencyCode,
		DueDate:                s.DueDate,
		PaidAmount:             s.PaidAmount,
		RemainingAmount:        s.RemainingAmount(),
		Status:                 s.Status,
		PaidDate:               s.PaidDate,
		Cancelled:              s.Cancelled,
		CreatedAt:              s.CreatedAt,
	}
}

// ToScheduleResponses converts a slice of schedules.
func ToScheduleResponses(schedules []domain.ObligationSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		out[i] = ToScheduleResponse(&schedules[i])
	}
	return out
}

// RemainingAmountResponse is the result of a remaining-amount query.
type RemainingAmountResponse struct {
	ScheduleID      string `json:"scheduleID"`
	RemainingAmount int64  `json:"remainingAmount"` // Minor units
}
