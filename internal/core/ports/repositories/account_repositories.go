package repositories

import (
	"context"
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for money accounts.
type AccountReader interface {
	// FindAccountByID retrieves a single money account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.MoneyAccount, error)

	// ListAccounts retrieves all money accounts.
	ListAccounts(ctx context.Context) ([]domain.MoneyAccount, error)

	// HasJournalHistory reports whether any journal entry references the account.
	HasJournalHistory(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for money accounts.
type AccountWriter interface {
	// SaveAccount persists a new money account.
	SaveAccount(ctx context.Context, account domain.MoneyAccount) error

	// UpdateAccount persists name/description/active-flag changes.
	// The currency is immutable and is never written by this method.
	UpdateAccount(ctx context.Context, account domain.MoneyAccount) error

	// DeactivateAccount flips the active flag off.
	DeactivateAccount(ctx context.Context, accountID string, updatedByUserID string, updatedAt time.Time) error

	// DeleteAccount hard-deletes an account. Callers must first check that the
	// account has no journal history.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
