package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// Alert codes produced by payment validation.
const (
	AlertCodeInvalidAmount       = "INVALID_AMOUNT"
	AlertCodeUnknownCurrency     = "UNKNOWN_CURRENCY"
	AlertCodeUnknownCounterparty = "UNKNOWN_COUNTERPARTY"
	AlertCodeInactiveParty       = "INACTIVE_COUNTERPARTY"
	AlertCodeUnknownBankAccount  = "UNKNOWN_BANK_ACCOUNT"
	AlertCodeInactiveBankAccount = "INACTIVE_BANK_ACCOUNT"
	AlertCodeCurrencyMismatch    = "BANK_ACCOUNT_CURRENCY_MISMATCH"
	AlertCodePossibleDuplicate   = "POSSIBLE_DUPLICATE"
	AlertCodeFutureDated         = "FUTURE_DATED"
	AlertCodeNoOpenSchedules     = "NO_OPEN_SCHEDULES"
	AlertCodeExceedsOutstanding  = "EXCEEDS_OUTSTANDING"
)

// ValidationService runs the business-rule checks ahead of payment creation.
// ERROR-level findings block the payment; WARNING-level findings are recorded
// and surfaced but do not block. Pure reads, no mutation.
type ValidationService struct {
	counterpartyRepo portsrepo.CounterpartyReader
	accountRepo      portsrepo.AccountReader
	paymentRepo      portsrepo.PaymentReader
	scheduleRepo     portsrepo.ScheduleReader
}

// NewValidationService creates a new ValidationService.
func NewValidationService(
	counterpartyRepo portsrepo.CounterpartyReader,
	accountRepo portsrepo.AccountReader,
	paymentRepo portsrepo.PaymentReader,
	scheduleRepo portsrepo.ScheduleReader,
) *ValidationService {
	return &ValidationService{
		counterpartyRepo: counterpartyRepo,
		accountRepo:      accountRepo,
		paymentRepo:      paymentRepo,
		scheduleRepo:     scheduleRepo,
	}
}

// ValidatePayment runs every check and returns the collected alerts.
func (s *ValidationService) ValidatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &domain.ValidationResult{}

	if req.Amount <= 0 {
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertError, Code: AlertCodeInvalidAmount,
			Message: "payment amount must be positive",
		})
	}
	if !domain.IsSupportedCurrency(req.CurrencyCode) {
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertError, Code: AlertCodeUnknownCurrency,
			Message: fmt.Sprintf("currency %s is not supported", req.CurrencyCode),
		})
	}

	counterparty, err := s.counterpartyRepo.FindCounterparty(ctx, req.CounterpartyKind, req.CounterpartyID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertError, Code: AlertCodeUnknownCounterparty,
			Message: fmt.Sprintf("%s %s not found", req.CounterpartyKind, req.CounterpartyID),
		})
	case err != nil:
		logger.Error("Failed to look up counterparty", slog.String("error", err.Error()), slog.String("counterparty_id", req.CounterpartyID))
		return nil, err
	case !counterparty.IsActive:
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertError, Code: AlertCodeInactiveParty,
			Message: fmt.Sprintf("%s %s is inactive", req.CounterpartyKind, req.CounterpartyID),
		})
	}

	if req.BankAccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *req.BankAccountID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			result.Alerts = append(result.Alerts, domain.Alert{
				Level: domain.AlertError, Code: AlertCodeUnknownBankAccount,
				Message: "bank account " + *req.BankAccountID + " not found",
			})
		case err != nil:
			return nil, err
		case !account.IsActive:
			result.Alerts = append(result.Alerts, domain.Alert{
				Level: domain.AlertError, Code: AlertCodeInactiveBankAccount,
				Message: "bank account " + *req.BankAccountID + " is inactive",
			})
		case account.CurrencyCode != req.CurrencyCode:
			result.Alerts = append(result.Alerts, domain.Alert{
				Level: domain.AlertError, Code: AlertCodeCurrencyMismatch,
				Message: fmt.Sprintf("bank account currency %s does not match payment currency %s", account.CurrencyCode, req.CurrencyCode),
			})
		}
	}

	if req.PaymentDate.After(time.Now()) {
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertWarning, Code: AlertCodeFutureDated,
			Message: "payment date is in the future",
		})
	}

	// Duplicate heuristic: same counterparty, amount, currency and payment
	// date. Legitimate repeats exist, so this only warns.
	duplicates, err := s.paymentRepo.FindDuplicateCandidates(ctx, req.CounterpartyKind, req.CounterpartyID, req.Amount, req.CurrencyCode, req.PaymentDate)
	if err != nil {
		logger.Error("Failed to check duplicate candidates", slog.String("error", err.Error()))
		return nil, err
	}
	if len(duplicates) > 0 {
		result.Alerts = append(result.Alerts, domain.Alert{
			Level: domain.AlertWarning, Code: AlertCodePossibleDuplicate,
			Message: fmt.Sprintf("%d payment(s) with the same counterparty, amount, currency and date already exist", len(duplicates)),
		})
	}

	// Outstanding debt checks only make sense when the currency is valid.
	if domain.IsSupportedCurrency(req.CurrencyCode) {
		schedules, err := s.scheduleRepo.ListOpenSchedules(ctx, req.CounterpartyKind, req.CounterpartyID, req.CurrencyCode)
		if err != nil {
			logger.Error("Failed to list open schedules for validation", slog.String("error", err.Error()))
			return nil, err
		}
		if len(schedules) == 0 {
			result.Alerts = append(result.Alerts, domain.Alert{
				Level: domain.AlertWarning, Code: AlertCodeNoOpenSchedules,
				Message: "counterparty has no open schedules in this currency",
			})
		} else {
			var outstanding int64
			for _, schedule := range schedules {
				outstanding += schedule.RemainingAmount()
			}
			if req.Amount > outstanding {
				result.Alerts = append(result.Alerts, domain.Alert{
					Level: domain.AlertWarning, Code: AlertCodeExceedsOutstanding,
					Message: fmt.Sprintf("payment amount %d exceeds total outstanding %d", req.Amount, outstanding),
				})
			}
		}
	}

	return result, nil
}
