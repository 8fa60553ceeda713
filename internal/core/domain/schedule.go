package domain

import (
	"sort"
	"time"
)

// ScheduleStatus is the derived state of an obligation schedule.
type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "PENDING"
	SchedulePartial ScheduleStatus = "PARTIAL"
	SchedulePaid    ScheduleStatus = "PAID"
	ScheduleOverdue ScheduleStatus = "OVERDUE"
)

// AllocationPriority orders open schedules for allocation: most delinquent
// first, then in-flight partials, then upcoming installments. Lower is sooner.
func (s ScheduleStatus) AllocationPriority() int {
	switch s {
	case ScheduleOverdue:
		return 1
	case SchedulePartial:
		return 2
	case SchedulePending:
		return 3
	default:
		return 4
	}
}

// DeriveScheduleStatus computes the status of a schedule purely from its
// paid/target amounts and the due date relative to now. Status is never set
// anywhere except through this function.
func DeriveScheduleStatus(paidAmount, amount int64, dueDate, now time.Time) ScheduleStatus {
	if paidAmount >= amount {
		return SchedulePaid
	}
	if dueDate.Before(now) {
		return ScheduleOverdue
	}
	if paidAmount > 0 {
		return SchedulePartial
	}
	return SchedulePending
}

// ObligationSchedule is one dated installment of a payable or receivable.
//
// Invariant: 0 <= PaidAmount <= Amount at all times; allocations are never
// allowed to push PaidAmount past Amount. A contract may be priced in one
// currency while the payer remits in another; the observed settlement currency
// is recorded alongside without any conversion.
type ObligationSchedule struct {
	ScheduleID             string           `json:"scheduleID"` // Primary Key (UUID)
	CounterpartyKind       CounterpartyKind `json:"counterpartyKind"`
	CounterpartyID         string           `json:"counterpartyID"`
	QuoteID                *string          `json:"quoteID"`      // Optional parent quote
	Amount                 int64            `json:"amount"`       // Target, minor units
	CurrencyCode           string           `json:"currencyCode"` // Contractual currency
	SettlementCurrencyCode *string          `json:"settlementCurrencyCode"` // Observed actual currency, when it differs
	DueDate                time.Time        `json:"dueDate"`
	PaidAmount             int64            `json:"paidAmount"` // Cumulative, recomputed from allocations
	Status                 ScheduleStatus   `json:"status"`
	PaidDate               *time.Time       `json:"paidDate"`  // Stamped on the PAID transition
	Cancelled              bool             `json:"cancelled"` // Cancel, never delete
	AuditFields
}

// OrderForAllocation sorts schedules in allocation order: OVERDUE, then
// PARTIAL, then PENDING; earliest due date first within a tier, schedule ID as
// a deterministic tie-break.
func OrderForAllocation(schedules []ObligationSchedule) {
	sort.Slice(schedules, func(i, j int) bool {
		pi, pj := schedules[i].Status.AllocationPriority(), schedules[j].Status.AllocationPriority()
		if pi != pj {
			return pi < pj
		}
		if !schedules[i].DueDate.Equal(schedules[j].DueDate) {
			return schedules[i].DueDate.Before(schedules[j].DueDate)
		}
		return schedules[i].ScheduleID < schedules[j].ScheduleID
	})
}

// RemainingAmount is the part of the target not yet covered by allocations.
func (s ObligationSchedule) RemainingAmount() int64 {
	remaining := s.Amount - s.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOpen reports whether the schedule can still receive allocations.
func (s ObligationSchedule) IsOpen() bool {
	return !s.Cancelled && s.Status != SchedulePaid
}
