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
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
	"github.com/studiaconsult/ledger_backend/internal/platform/audit"
)

const defaultPaymentPageSize = 50

// PaymentService drives the payment lifecycle: record, validate (settle) or
// reject. Settlement is one atomic unit of work: the allocations, the schedule
// updates and the journal entry all commit together or not at all.
type PaymentService struct {
	paymentRepo   portsrepo.PaymentRepositoryWithTx
	journalRepo   portsrepo.JournalWriter
	validationSvc portssvc.PaymentValidationSvc
	allocationSvc portssvc.AllocationSvcFacade
	auditor       audit.Publisher
	// autoValidateAll settles every newly created payment immediately,
	// regardless of the per-request AutoValidate flag.
	autoValidateAll bool
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryWithTx,
	journalRepo portsrepo.JournalWriter,
	validationSvc portssvc.PaymentValidationSvc,
	allocationSvc portssvc.AllocationSvcFacade,
	auditor audit.Publisher,
	autoValidateAll bool,
) *PaymentService {
	return &PaymentService{
		paymentRepo:     paymentRepo,
		journalRepo:     journalRepo,
		validationSvc:   validationSvc,
		allocationSvc:   allocationSvc,
		auditor:         auditor,
		autoValidateAll: autoValidateAll,
	}
}

// CreatePayment runs business-rule validation and records the payment in
// PENDING_VALIDATION. ERROR-level findings block; WARNING-level findings are
// returned alongside the created payment. With AutoValidate the payment is
// settled in the same call.
func (s *PaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, *domain.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result, err := s.validationSvc.ValidatePayment(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if result.HasBlocking() {
		logger.Warn("Payment blocked by validation", slog.Int("alerts", len(result.Alerts)))
		return nil, result, apperrors.NewAppError(422, "payment blocked by validation errors", apperrors.ErrValidationBlocked)
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:        uuid.NewString(),
		CounterpartyKind: req.CounterpartyKind,
		CounterpartyID:   req.CounterpartyID,
		Amount:           req.Amount,
		CurrencyCode:     req.CurrencyCode,
		PaymentDate:      req.PaymentDate,
		BankAccountID:    req.BankAccountID,
		Status:           domain.PaymentPendingValidation,
		Notes:            req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID))
		return nil, nil, err
	}

	s.auditor.Notify(audit.Event{
		Action:     "payment.created",
		EntityType: "payment",
		EntityID:   payment.PaymentID,
		ActorID:    creatorUserID,
		Details: map[string]any{
			"amount":   payment.Amount,
			"currency": payment.CurrencyCode,
			"kind":     string(payment.CounterpartyKind),
		},
	})
	logger.Info("Payment created",
		slog.String("payment_id", payment.PaymentID),
		slog.Int64("amount", payment.Amount),
		slog.String("currency", payment.CurrencyCode),
	)

	if req.AutoValidate || s.autoValidateAll {
		validated, err := s.ValidatePayment(ctx, payment.PaymentID, req.Allocations, creatorUserID)
		if err != nil {
			// The payment record stands; settlement can be retried explicitly.
			logger.Error("Auto-validation failed", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID))
			return &payment, result, err
		}
		return validated, result, nil
	}

	return &payment, result, nil
}

// ValidatePayment settles a pending payment. When no explicit allocations are
// supplied, the suggested distribution is applied. The allocations, the
// schedule state updates, the journal entry and the status flip happen inside
// one database transaction against locked rows.
func (s *PaymentService) ValidatePayment(ctx context.Context, paymentID string, allocations []dto.AllocationInput, validatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPendingValidation {
		return nil, apperrors.NewAppError(409, "payment is not pending validation", apperrors.ErrConflict)
	}

	inputs := allocations
	if len(inputs) == 0 {
		suggestions, err := s.allocationSvc.SuggestAllocation(ctx, paymentID, dto.SuggestAllocationFilters{})
		if err != nil {
			return nil, err
		}
		inputs = make([]dto.AllocationInput, len(suggestions))
		for i, sug := range suggestions {
			inputs[i] = dto.AllocationInput{ScheduleID: sug.ScheduleID, Amount: sug.Amount}
		}
	}

	now := time.Now()
	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin settlement transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		// no-op if already committed
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	// A payment with no open matching schedules settles unallocated; the
	// remainder stays available for later allocation.
	if len(inputs) > 0 {
		if _, _, err := s.allocationSvc.ApplyAllocationsTx(ctx, tx, payment, inputs, validatorUserID, now); err != nil {
			return nil, err
		}
	}

	// The journal entry records the actual money movement when the payment is
	// tied to a money account. Students pay the organization; mentors and
	// professors are paid by it.
	if payment.BankAccountID != nil {
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          payment.PaymentDate,
			Amount:        payment.Amount,
			CurrencyCode:  payment.CurrencyCode,
			PaymentID:     &payment.PaymentID,
			Description:   "settlement of payment " + payment.PaymentID,
			CreatedAt:     now,
			CreatedBy:     validatorUserID,
		}
		if payment.CounterpartyKind.IsPayer() {
			txn.Type = domain.TxnStudentPayment
			txn.DestinationAccountID = payment.BankAccountID
		} else {
			txn.Type = domain.TxnStaffPayment
			txn.SourceAccountID = payment.BankAccountID
		}
		if _, err := s.journalRepo.SaveTransactionTx(ctx, tx, txn); err != nil {
			logger.Error("Failed to append settlement journal entry", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
			return nil, err
		}
	}

	if err := s.paymentRepo.UpdatePaymentStatusTx(ctx, tx, paymentID, domain.PaymentValidated, validatorUserID, now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit settlement transaction", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	payment.Status = domain.PaymentValidated
	payment.ValidatedBy = &validatorUserID
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = validatorUserID

	s.auditor.Notify(audit.Event{
		Action:     "payment.validated",
		EntityType: "payment",
		EntityID:   paymentID,
		ActorID:    validatorUserID,
		Details:    map[string]any{"allocations": len(inputs)},
	})
	logger.Info("Payment validated",
		slog.String("payment_id", paymentID),
		slog.Int("allocations", len(inputs)),
	)
	return payment, nil
}

// RejectPayment refuses a pending payment. Rejected payments keep their record
// but never settle.
func (s *PaymentService) RejectPayment(ctx context.Context, paymentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != domain.PaymentPendingValidation {
		return apperrors.NewAppError(409, "payment is not pending validation", apperrors.ErrConflict)
	}

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.PaymentRejected, userID, time.Now()); err != nil {
		logger.Error("Failed to reject payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return err
	}

	s.auditor.Notify(audit.Event{
		Action:     "payment.rejected",
		EntityType: "payment",
		EntityID:   paymentID,
		ActorID:    userID,
	})
	logger.Info("Payment rejected", slog.String("payment_id", paymentID))
	return nil
}

// GetPaymentByID retrieves a payment.
func (s *PaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

// GetPaymentAllocations retrieves a payment's allocations.
func (s *PaymentService) GetPaymentAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	if _, err := s.paymentRepo.FindPaymentByID(ctx, paymentID); err != nil {
		return nil, err
	}
	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if allocations == nil {
		allocations = []domain.PaymentAllocation{}
	}
	return allocations, nil
}

// ListPayments retrieves a page of payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPaymentPageSize
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		return nil, err
	}

	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = dto.ToPaymentResponse(&payments[i])
	}
	return &dto.ListPaymentsResponse{
		Payments:  responses,
		NextToken: nextToken,
	}, nil
}
