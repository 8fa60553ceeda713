package services

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

// PaymentSvcFacade is the settlement workflow around payment records.
type PaymentSvcFacade interface {
	// CreatePayment runs business-rule validation and records the payment.
	// WARNING-level alerts are returned alongside; ERROR-level alerts block.
	// With AutoValidate set the payment is settled in the same call.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, *domain.ValidationResult, error)

	// ValidatePayment settles a pending payment as one atomic unit: allocation
	// (explicit or suggested), schedule updates and the journal entry either
	// all become visible together or not at all.
	ValidatePayment(ctx context.Context, paymentID string, allocations []dto.AllocationInput, validatorUserID string) (*domain.Payment, error)

	// RejectPayment refuses a pending payment.
	RejectPayment(ctx context.Context, paymentID string, userID string) error

	// GetPaymentByID retrieves a payment.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// GetPaymentAllocations retrieves a payment's allocations.
	GetPaymentAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)

	// ListPayments retrieves a page of payments, newest first.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}

// PaymentValidationSvc runs cross-cutting business-rule checks before a
// payment is committed. Pure reads, no mutation.
type PaymentValidationSvc interface {
	ValidatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.ValidationResult, error)
}
