package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// JournalReader defines read operations over the append-only transaction journal.
type JournalReader interface {
	// FindTransactionByID retrieves a single journal entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a paginated list of journal entries
	// touching the account (as source or destination), newest first, using
	// token-based pagination. Returns the entries and a next-page token.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ComputeBalance derives the account balance by aggregating the full
	// journal: sum(amount where destination) - sum(amount where source).
	ComputeBalance(ctx context.Context, accountID string) (int64, error)
}

// JournalWriter defines the append operation. There is deliberately no update
// or delete: corrections are recorded as new offsetting entries.
type JournalWriter interface {
	// SaveTransaction appends one journal entry, assigning it the next
	// sequential human-readable number. Returns the entry with number set.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// SaveTransactionTx is SaveTransaction inside a caller-owned transaction,
	// used by the payment settlement unit of work.
	SaveTransactionTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
