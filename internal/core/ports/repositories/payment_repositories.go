package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// PaymentReader defines read operations for payments and their allocations.
type PaymentReader interface {
	// FindPaymentByID retrieves a single payment.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payments, newest first,
	// using token-based pagination.
	ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// FindAllocationsByPaymentID retrieves all allocations of a payment.
	FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)

	// SumAllocationsByPaymentID sums the allocation amounts of a payment.
	SumAllocationsByPaymentID(ctx context.Context, paymentID string) (int64, error)

	// FindDuplicateCandidates retrieves non-rejected payments with the same
	// counterparty, amount, currency and payment date. Used by the
	// duplicate-payment heuristic of the validation service.
	FindDuplicateCandidates(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string, amount int64, currencyCode string, paymentDate time.Time) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	// SavePayment persists a new payment record.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePaymentStatus flips a payment's status (validated/rejected).
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, actorUserID string, updatedAt time.Time) error
}

// PaymentTxOps are the operations the settlement unit of work runs inside a
// single database transaction.
type PaymentTxOps interface {
	// FindPaymentByIDForUpdate retrieves a payment and locks its row.
	FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error)

	// SumAllocationsByPaymentIDTx sums allocations within the transaction.
	SumAllocationsByPaymentIDTx(ctx context.Context, tx pgx.Tx, paymentID string) (int64, error)

	// SaveAllocationsTx inserts allocation rows within the transaction.
	SaveAllocationsTx(ctx context.Context, tx pgx.Tx, allocations []domain.PaymentAllocation) error

	// UpdatePaymentStatusTx is UpdatePaymentStatus within the transaction.
	UpdatePaymentStatusTx(ctx context.Context, tx pgx.Tx, paymentID string, status domain.PaymentStatus, actorUserID string, updatedAt time.Time) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
	PaymentTxOps
}

// PaymentRepositoryWithTx extends the facade with transaction management.
// The settlement flow begins its transaction here and passes the handle to the
// schedule and journal repositories.
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
