package models

import "time"

// ObligationSchedule is the database row for one installment.
type ObligationSchedule struct {
	ScheduleID             string     `db:"schedule_id"`
	CounterpartyKind       string     `db:"counterparty_kind"`
	CounterpartyID         string     `db:"counterparty_id"`
	QuoteID                *string    `db:"quote_id"`
	Amount                 int64      `db:"amount"`
	CurrencyCode           string     `db:"currency_code"`
	SettlementCurrencyCode *string    `db:"settlement_currency_code"`
	DueDate                time.Time  `db:"due_date"`
	PaidAmount             int64      `db:"paid_amount"`
	Status                 string     `db:"status"`
	PaidDate               *time.Time `db:"paid_date"`
	Cancelled              bool       `db:"cancelled"`
	AuditFields
}
