package models

import "time"

// Payment is the database row for one money receipt or disbursement.
type Payment struct {
	PaymentID        string    `db:"payment_id"`
	CounterpartyKind string    `db:"counterparty_kind"`
	CounterpartyID   string    `db:"counterparty_id"`
	Amount           int64     `db:"amount"`
	CurrencyCode     string    `db:"currency_code"`
	PaymentDate      time.Time `db:"payment_date"`
	BankAccountID    *string   `db:"bank_account_id"`
	ValidatedBy      *string   `db:"validated_by"`
	Status           string    `db:"status"`
	Notes            string    `db:"notes"`
	AuditFields
}

// PaymentAllocation is the database row linking one payment to one schedule.
type PaymentAllocation struct {
	AllocationID string `db:"allocation_id"`
	PaymentID    string `db:"payment_id"`
	ScheduleID   string `db:"schedule_id"`
	Amount       int64  `db:"amount"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
}
