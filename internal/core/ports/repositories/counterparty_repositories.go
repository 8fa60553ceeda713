package repositories

import (
	"context"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// CounterpartyReader is the boundary contract towards the student/mentor/
// professor registries of the surrounding back office. The ledger only needs
// existence and minimal identity.
type CounterpartyReader interface {
	// FindCounterparty retrieves a counterparty by kind and identifier.
	FindCounterparty(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string) (*domain.Counterparty, error)
}
