package models

import "time"

// Transaction is the database row for one append-only journal entry.
// Number is assigned from a database sequence at insert time.
type Transaction struct {
	TransactionID        string    `db:"transaction_id"`
	Number               string    `db:"number"`
	Date                 time.Time `db:"date"`
	Type                 string    `db:"type"`
	Amount               int64     `db:"amount"`
	CurrencyCode         string    `db:"currency_code"`
	SourceAccountID      *string   `db:"source_account_id"`
	DestinationAccountID *string   `db:"destination_account_id"`
	PaymentID            *string   `db:"payment_id"`
	ScheduleID           *string   `db:"schedule_id"`
	MissionID            *string   `db:"mission_id"`
	DistributionID       *string   `db:"distribution_id"`
	ExpenseID            *string   `db:"expense_id"`
	Description          string    `db:"description"`
	CreatedAt            time.Time `db:"created_at"`
	CreatedBy            string    `db:"created_by"`
}
