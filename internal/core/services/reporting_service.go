package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
	"github.com/studiaconsult/ledger_backend/internal/utils"
)

// ReportingService builds read-only aggregates derived from the journal.
type ReportingService struct {
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader) *ReportingService {
	return &ReportingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// GetAccountBalancesReport derives every account's balance from the journal.
// Balances are not stored anywhere; this aggregation is the source of truth.
func (s *ReportingService) GetAccountBalancesReport(ctx context.Context) (*dto.AccountBalancesReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts for report", slog.String("error", err.Error()))
		return nil, err
	}

	report := &dto.AccountBalancesReport{
		Rows:        make([]dto.AccountBalanceRow, 0, len(accounts)),
		GeneratedAt: time.Now(),
	}
	for _, account := range accounts {
		balance, err := s.journalRepo.ComputeBalance(ctx, account.AccountID)
		if err != nil {
			logger.Error("Failed to compute balance for report", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
			return nil, err
		}
		report.Rows = append(report.Rows, dto.AccountBalanceRow{
			AccountID:        account.AccountID,
			Name:             account.Name,
			CurrencyCode:     account.CurrencyCode,
			IsActive:         account.IsActive,
			Balance:          balance,
			BalanceFormatted: utils.FormatMinorUnits(balance, account.CurrencyCode),
		})
	}

	return report, nil
}
