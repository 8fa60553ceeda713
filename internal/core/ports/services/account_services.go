package services

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// AccountSvcFacade exposes money account management.
type AccountSvcFacade interface {
	// CreateAccount registers a new bank/cash account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.MoneyAccount, error)

	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.MoneyAccount, error)

	// ListAccounts retrieves all accounts.
	ListAccounts(ctx context.Context) ([]domain.MoneyAccount, error)

	// UpdateAccount changes mutable fields (name, active flag).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.MoneyAccount, error)

	// DeactivateAccount soft-disables an account that has journal history.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// DeleteAccount hard-deletes an account; fails if it has journal history.
	DeleteAccount(ctx context.Context, accountID string) error

	// GetAccountBalance derives the balance from the journal.
	GetAccountBalance(ctx context.Context, accountID string) (int64, error)
}
