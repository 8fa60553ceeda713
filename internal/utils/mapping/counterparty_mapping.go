package mapping

import (
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/models"
)

// ToDomainCounterparty converts a model Counterparty to a domain Counterparty
func ToDomainCounterparty(m models.Counterparty) domain.Counterparty {
	return domain.Counterparty{
		CounterpartyID: m.CounterpartyID,
		Kind:           domain.CounterpartyKind(m.Kind),
		FullName:       m.FullName,
		IsActive:       m.IsActive,
	}
}
