package domain_test

import (
	"testing"
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDeriveScheduleStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name       string
		paidAmount int64
		amount     int64
		dueDate    time.Time
		want       domain.ScheduleStatus
	}{
		{name: "unpaid, due in the future", paidAmount: 0, amount: 5000, dueDate: future, want: domain.SchedulePending},
		{name: "partially paid, due in the future", paidAmount: 1, amount: 5000, dueDate: future, want: domain.SchedulePartial},
		{name: "unpaid, due date passed", paidAmount: 0, amount: 5000, dueDate: past, want: domain.ScheduleOverdue},
		{name: "partially paid, due date passed", paidAmount: 4999, amount: 5000, dueDate: past, want: domain.ScheduleOverdue},
		{name: "exactly paid", paidAmount: 5000, amount: 5000, dueDate: past, want: domain.SchedulePaid},
		{name: "paid schedules never go overdue", paidAmount: 5000, amount: 5000, dueDate: past.AddDate(-1, 0, 0), want: domain.SchedulePaid},
		{name: "due exactly now is not yet overdue", paidAmount: 0, amount: 100, dueDate: now, want: domain.SchedulePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveScheduleStatus(tt.paidAmount, tt.amount, tt.dueDate, now)
			assert.Equal(t, tt.want, got)

			// Pure function: same inputs, same output.
			again := domain.DeriveScheduleStatus(tt.paidAmount, tt.amount, tt.dueDate, now)
			assert.Equal(t, got, again)
		})
	}
}

func TestAllocationPriority_Ordering(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	overdue := domain.ObligationSchedule{
		ScheduleID: "sch-overdue",
		Amount:     1000,
		DueDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	overdue.Status = domain.DeriveScheduleStatus(0, overdue.Amount, overdue.DueDate, now)

	partial := domain.ObligationSchedule{
		ScheduleID: "sch-partial",
		Amount:     1000,
		PaidAmount: 200,
		DueDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	partial.Status = domain.DeriveScheduleStatus(partial.PaidAmount, partial.Amount, partial.DueDate, now)

	pending := domain.ObligationSchedule{
		ScheduleID: "sch-pending",
		Amount:     1000,
		DueDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	pending.Status = domain.DeriveScheduleStatus(0, pending.Amount, pending.DueDate, now)

	assert.Equal(t, domain.ScheduleOverdue, overdue.Status)
	assert.Equal(t, domain.SchedulePartial, partial.Status)
	assert.Equal(t, domain.SchedulePending, pending.Status)

	// Pending is due earlier than partial, but priority tiers win over due dates.
	schedules := []domain.ObligationSchedule{pending, partial, overdue}
	domain.OrderForAllocation(schedules)

	assert.Equal(t, "sch-overdue", schedules[0].ScheduleID)
	assert.Equal(t, "sch-partial", schedules[1].ScheduleID)
	assert.Equal(t, "sch-pending", schedules[2].ScheduleID)
}

func TestObligationSchedule_RemainingAmount(t *testing.T) {
	s := domain.ObligationSchedule{Amount: 1000, PaidAmount: 800}
	assert.Equal(t, int64(200), s.RemainingAmount())

	s.PaidAmount = 1000
	assert.Equal(t, int64(0), s.RemainingAmount())

	// Defensive: never negative even if the invariant were violated upstream.
	s.PaidAmount = 1200
	assert.Equal(t, int64(0), s.RemainingAmount())
}

func TestObligationSchedule_IsOpen(t *testing.T) {
	open := domain.ObligationSchedule{Status: domain.SchedulePartial}
	assert.True(t, open.IsOpen())

	paid := domain.ObligationSchedule{Status: domain.SchedulePaid}
	assert.False(t, paid.IsOpen())

	cancelled := domain.ObligationSchedule{Status: domain.SchedulePending, Cancelled: true}
	assert.False(t, cancelled.IsOpen())
}
