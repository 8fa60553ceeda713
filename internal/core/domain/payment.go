package domain

import "time"

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentPendingValidation PaymentStatus = "PENDING_VALIDATION"
	PaymentValidated         PaymentStatus = "VALIDATED"
	PaymentRejected          PaymentStatus = "REJECTED"
)

// Payment is a single money receipt or disbursement event, optionally linked
// to obligation schedules through allocations.
//
// Invariant: the sum of the payment's allocation amounts never exceeds Amount.
// Once validated, a payment is immutable apart from allocation bookkeeping.
type Payment struct {
	PaymentID        string           `json:"paymentID"` // Primary Key (UUID)
	CounterpartyKind CounterpartyKind `json:"counterpartyKind"`
	CounterpartyID   string           `json:"counterpartyID"`
	Amount           int64            `json:"amount"` // Minor units, always positive
	CurrencyCode     string           `json:"currencyCode"`
	PaymentDate      time.Time        `json:"paymentDate"`
	BankAccountID    *string          `json:"bankAccountID"` // Optional linked money account
	ValidatedBy      *string          `json:"validatedBy"`   // Approving actor, once validated
	Status           PaymentStatus    `json:"status"`
	Notes            string           `json:"notes"`
	AuditFields
}

// PaymentAllocation assigns part or all of one payment's amount to one
// schedule. Created only by the allocation engine, never edited.
//
// Invariant: CurrencyCode matches both the parent payment's and the target
// schedule's currency.
type PaymentAllocation struct {
	AllocationID string `json:"allocationID"` // Primary Key (UUID)
	PaymentID    string `json:"paymentID"`
	ScheduleID   string `json:"scheduleID"`
	Amount       int64  `json:"amount"` // Minor units, always positive
	CurrencyCode string `json:"currencyCode"`
	AuditFields
}

// AllocationSuggestion is one line of a computed allocation proposal.
type AllocationSuggestion struct {
	ScheduleID   string         `json:"scheduleID"`
	Amount       int64          `json:"amount"`
	CurrencyCode string         `json:"currencyCode"`
	DueDate      time.Time      `json:"dueDate"`
	Status       ScheduleStatus `json:"status"`
}

// AllocationStats is a read-only aggregate over a payment's allocations.
type AllocationStats struct {
	PaymentID              string `json:"paymentID"`
	TotalAllocated         int64  `json:"totalAllocated"`
	RemainingAmount        int64  `json:"remainingAmount"`
	SchedulesFullyPaid     int    `json:"schedulesFullyPaid"`
	SchedulesPartiallyPaid int    `json:"schedulesPartiallyPaid"`
}
