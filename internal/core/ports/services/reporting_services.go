package services

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// ReportingSvcFacade exposes read-only derived aggregates.
type ReportingSvcFacade interface {
	// GetAccountBalancesReport derives every account's balance from the journal.
	GetAccountBalancesReport(ctx context.Context) (*dto.AccountBalancesReport, error)
}
