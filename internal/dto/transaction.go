package dto

import (
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// RecordTransactionRequest defines the data needed to append a journal entry.
// At least one of sourceAccountID/destinationAccountID must be set.
type RecordTransactionRequest struct {
	Date                 time.Time              `json:"date" binding:"required"`
	Type                 domain.TransactionType `json:"type" binding:"required,oneof=STUDENT_PAYMENT STAFF_PAYMENT EXPENSE DISTRIBUTION TRANSFER EXCHANGE"`
	Amount               int64                  `json:"amount" binding:"required,gt=0"` // Minor units
	CurrencyCode         string                 `json:"currencyCode" binding:"required,currency"`
	SourceAccountID      *string                `json:"sourceAccountID"`
	DestinationAccountID *string                `json:"destinationAccountID"`
	PaymentID            *string                `json:"paymentID"`
	ScheduleID           *string                `json:"scheduleID"`
	MissionID            *string                `json:"missionID"`
	DistributionID       *string                `json:"distributionID"`
	ExpenseID            *string                `json:"expenseID"`
	Description          string                 `json:"description"`
}

// TransactionResponse mirrors domain.Transaction.
type TransactionResponse struct {
	TransactionID        string                 `json:"transactionID"`
	Number               string                 `json:"number"`
	Date                 time.Time              `json:"date"`
	Type                 domain.TransactionType `json:"type"`
	Amount               int64                  `json:"amount"`
	CurrencyCode         string                 `json:"currencyCode"`
	SourceAccountID      *string                `json:"sourceAccountID,omitempty"`
	DestinationAccountID *string                `json:"destinationAccountID,omitempty"`
	PaymentID            *string                `json:"paymentID,omitempty"`
	ScheduleID           *string                `json:"scheduleID,omitempty"`
	Description          string                 `json:"description"`
	CreatedAt            time.Time              `json:"createdAt"`
	CreatedBy            string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Number:               txn.Number,
		Date:                 txn.Date,
		Type:                 txn.Type,
		Amount:               txn.Amount,
		CurrencyCode:         txn.CurrencyCode,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		PaymentID:            txn.PaymentID,
		ScheduleID:           txn.ScheduleID,
		Description:          txn.Description,
		CreatedAt:            txn.CreatedAt,
		CreatedBy:            txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsParams holds pagination parameters for journal listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of journal entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
