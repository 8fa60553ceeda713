package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// AccountService manages bank and cash money accounts. Balances are never
// stored on the account; they are derived from the journal on demand.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// CreateAccount registers a new money account.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.MoneyAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsSupportedCurrency(req.CurrencyCode) {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unsupported currency: %s", req.CurrencyCode), apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.MoneyAccount{
		AccountID:    uuid.NewString(),
		Name:         req.Name,
		OwnerID:      req.OwnerID,
		CurrencyCode: req.CurrencyCode,
		AccountKind:  req.AccountKind,
		IsOrgOwned:   req.IsOrgOwned,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("currency", account.CurrencyCode))
	return &account, nil
}

// GetAccountByID retrieves an account.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.MoneyAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves all accounts.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.MoneyAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.MoneyAccount{}, nil
	}
	return accounts, nil
}

// UpdateAccount changes the mutable fields of an account. The currency is
// immutable once the account exists.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.MoneyAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount soft-disables an account. Used when an account has journal
// history and therefore can never be deleted.
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount hard-deletes an account that has no journal history. Accounts
// referenced by journal entries must be deactivated instead, so that historic
// entries always resolve.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasHistory, err := s.accountRepo.HasJournalHistory(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check journal history", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	if hasHistory {
		return apperrors.NewAppError(409, "account has journal history and cannot be deleted, deactivate it instead", apperrors.ErrConflict)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// GetAccountBalance derives the balance from the journal aggregation.
func (s *AccountService) GetAccountBalance(ctx context.Context, accountID string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return 0, err
	}

	balance, err := s.journalRepo.ComputeBalance(ctx, accountID)
	if err != nil {
		logger.Error("Failed to compute balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return 0, err
	}
	return balance, nil
}
