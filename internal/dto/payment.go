package dto

import (
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// AllocationInput is one caller-supplied {schedule, amount} allocation pair.
type AllocationInput struct {
	ScheduleID string `json:"scheduleID" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"` // Minor units
}

// CreatePaymentRequest records money received from, or paid to, a counterparty.
type CreatePaymentRequest struct {
	CounterpartyKind domain.CounterpartyKind `json:"counterpartyKind" binding:"required,oneof=STUDENT MENTOR PROFESSOR"`
	CounterpartyID   string                  `json:"counterpartyID" binding:"required"`
	Amount           int64                   `json:"amount" binding:"required,gt=0"` // Minor units
	CurrencyCode     string                  `json:"currencyCode" binding:"required,currency"`
	PaymentDate      time.Time               `json:"paymentDate" binding:"required"`
	BankAccountID    *string                 `json:"bankAccountID"`
	Notes            string                  `json:"notes"`
	AutoValidate     bool                    `json:"autoValidate"`
	Allocations      []AllocationInput       `json:"allocations" binding:"omitempty,dive"`
}

// ValidatePaymentRequest optionally overrides the allocation set at validation
// time. When empty, suggested allocations are applied.
type ValidatePaymentRequest struct {
	Allocations []AllocationInput `json:"allocations" binding:"omitempty,dive"`
}

// PaymentResponse mirrors domain.Payment.
type PaymentResponse struct {
	PaymentID        string                  `json:"paymentID"`
	CounterpartyKind domain.CounterpartyKind `json:"counterpartyKind"`
	CounterpartyID   string                  `json:"counterpartyID"`
	Amount           int64                   `json:"amount"`
	CurrencyCode     string                  `json:"currencyCode"`
	PaymentDate      time.Time               `json:"paymentDate"`
	BankAccountID    *string                 `json:"bankAccountID,omitempty"`
	ValidatedBy      *string                 `json:"validatedBy,omitempty"`
	Status           domain.PaymentStatus    `json:"status"`
	Notes            string                  `json:"notes"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:        p.PaymentID,
		CounterpartyKind: p.CounterpartyKind,
		CounterpartyID:   p.CounterpartyID,
		Amount:           p.Amount,
		CurrencyCode:     p.CurrencyCode,
		PaymentDate:      p.PaymentDate,
		BankAccountID:    p.BankAccountID,
		ValidatedBy:      p.ValidatedBy,
		Status:           p.Status,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
	}
}

// CreatePaymentResponse bundles the created payment with validation warnings.
type CreatePaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Alerts  []domain.Alert  `json:"alerts,omitempty"` // WARNING-level findings
}

// AllocationResponse mirrors domain.PaymentAllocation.
type AllocationResponse struct {
	AllocationID string    `json:"allocationID"`
	PaymentID    string    `json:"paymentID"`
	ScheduleID   string    `json:"scheduleID"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currencyCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToAllocationResponses converts a slice of allocations.
func ToAllocationResponses(allocs []domain.PaymentAllocation) []AllocationResponse {
	out := make([]AllocationResponse, len(allocs))
	for i, a := range allocs {
		out[i] = AllocationResponse{
			AllocationID: a.AllocationID,
			PaymentID:    a.PaymentID,
			ScheduleID:   a.ScheduleID,
			Amount:       a.Amount,
			CurrencyCode: a.CurrencyCode,
			CreatedAt:    a.CreatedAt,
		}
	}
	return out
}

// AllocationOutcome reports what an allocation run created and touched.
type AllocationOutcome struct {
	Allocations []AllocationResponse `json:"allocations"`
	Schedules   []ScheduleResponse   `json:"schedules"`
}

// SuggestAllocationFilters optionally narrows the candidate schedules.
type SuggestAllocationFilters struct {
	CounterpartyKind domain.CounterpartyKind `form:"counterpartyKind"`
	CounterpartyID   string                  `form:"counterpartyID"`
}

// ListPaymentsParams holds pagination parameters for payment listings.
type ListPaymentsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse is a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}
