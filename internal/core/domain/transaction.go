package domain

import "time"

// TransactionType tags the business meaning of a journal entry.
type TransactionType string

const (
	TxnStudentPayment TransactionType = "STUDENT_PAYMENT"
	TxnStaffPayment   TransactionType = "STAFF_PAYMENT"
	TxnExpense        TransactionType = "EXPENSE"
	TxnDistribution   TransactionType = "DISTRIBUTION"
	TxnTransfer       TransactionType = "TRANSFER"
	TxnExchange       TransactionType = "EXCHANGE"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TxnStudentPayment, TxnStaffPayment, TxnExpense, TxnDistribution, TxnTransfer, TxnExchange:
		return true
	}
	return false
}

// Transaction is a single append-only journal entry describing a money
// movement between accounts, or between an account and an external party.
//
// Invariants: Amount > 0; at least one of SourceAccountID/DestinationAccountID
// is set; entries are never updated or deleted - corrections are recorded as
// new offsetting entries.
type Transaction struct {
	TransactionID        string          `json:"transactionID"` // Primary Key (UUID)
	Number               string          `json:"number"`        // Sequential human-readable, e.g. TRX-000042
	Date                 time.Time       `json:"date"`          // Business date of the movement
	Type                 TransactionType `json:"type"`
	Amount               int64           `json:"amount"` // Minor units, always positive
	CurrencyCode         string          `json:"currencyCode"`
	SourceAccountID      *string         `json:"sourceAccountID"`      // Nullable
	DestinationAccountID *string         `json:"destinationAccountID"` // Nullable
	PaymentID            *string         `json:"paymentID"`            // Optional linkage
	ScheduleID           *string         `json:"scheduleID"`           // Optional linkage
	MissionID            *string         `json:"missionID"`            // Optional linkage
	DistributionID       *string         `json:"distributionID"`       // Optional linkage
	ExpenseID            *string         `json:"expenseID"`            // Optional linkage
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}

// BalanceOf derives an account balance from a set of journal entries:
// sum of amounts received minus sum of amounts sent. The aggregation is a
// plain sum, so it is independent of entry order.
func BalanceOf(accountID string, transactions []Transaction) int64 {
	var balance int64
	for _, txn := range transactions {
		if txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID {
			balance += txn.Amount
		}
		if txn.SourceAccountID != nil && *txn.SourceAccountID == accountID {
			balance -= txn.Amount
		}
	}
	return balance
}
