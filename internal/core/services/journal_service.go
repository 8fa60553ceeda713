package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

const defaultTransactionPageSize = 50

// JournalService maintains the append-only transaction journal. Entries are
// only ever inserted; a mistake is corrected by a new offsetting entry.
type JournalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// RecordTransaction validates and appends one journal entry. The repository
// assigns the next sequential entry number.
func (s *JournalService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		Date:                 req.Date,
		Type:                 req.Type,
		Amount:               req.Amount,
		CurrencyCode:         req.CurrencyCode,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		PaymentID:            req.PaymentID,
		ScheduleID:           req.ScheduleID,
		MissionID:            req.MissionID,
		DistributionID:       req.DistributionID,
		ExpenseID:            req.ExpenseID,
		Description:          req.Description,
		CreatedAt:            time.Now(),
		CreatedBy:            creatorUserID,
	}

	if err := s.validateEntry(ctx, txn); err != nil {
		return nil, err
	}

	saved, err := s.journalRepo.SaveTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Journal entry recorded",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("number", saved.Number),
		slog.String("type", string(saved.Type)),
		slog.Int64("amount", saved.Amount),
	)
	return saved, nil
}

// validateEntry enforces the journal invariants: positive amount, supported
// currency, at least one endpoint, endpoints exist, are active and match the
// entry currency.
func (s *JournalService) validateEntry(ctx context.Context, txn domain.Transaction) error {
	if txn.Amount <= 0 {
		return apperrors.NewAppError(400, "transaction amount must be positive", apperrors.ErrInvalidAmount)
	}
	if !txn.Type.IsValid() {
		return apperrors.NewAppError(400, "unknown transaction type", apperrors.ErrValidation)
	}
	if !domain.IsSupportedCurrency(txn.CurrencyCode) {
		return apperrors.NewAppError(400, "unsupported currency", apperrors.ErrValidation)
	}
	if txn.SourceAccountID == nil && txn.DestinationAccountID == nil {
		return apperrors.NewAppError(400, "at least one of source/destination account is required", apperrors.ErrValidation)
	}

	for _, accountID := range []*string{txn.SourceAccountID, txn.DestinationAccountID} {
		if accountID == nil {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, *accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("account " + *accountID + " not found")
			}
			return err
		}
		if !account.IsActive {
			return apperrors.NewAppError(422, "account "+*accountID+" is inactive", apperrors.ErrInactiveAccount)
		}
		if account.CurrencyCode != txn.CurrencyCode {
			return apperrors.NewAppError(422, "account "+*accountID+" currency does not match transaction currency", apperrors.ErrCurrencyMismatch)
		}
	}
	return nil
}

// GetTransactionByID retrieves a single journal entry.
func (s *JournalService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	txn, err := s.journalRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByAccount retrieves a page of entries touching the account.
func (s *JournalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	txns, nextToken, err := s.journalRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
