package services

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// JournalSvcFacade exposes the append-only transaction journal.
type JournalSvcFacade interface {
	// RecordTransaction validates and appends one journal entry.
	RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a single journal entry.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of entries touching an account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
