package mapping

import (
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/models"
)

// ToModelSchedule converts a domain ObligationSchedule to a model ObligationSchedule
func ToModelSchedule(d domain.ObligationSchedule) models.ObligationSchedule {
	return models.ObligationSchedule{
		ScheduleID:             d.ScheduleID,
		CounterpartyKind:       string(d.CounterpartyKind),
		CounterpartyID:         d.CounterpartyID,
		QuoteID:                d.QuoteID,
		Amount:                 d.Amount,
		CurrencyCode:           d.CurrencyCode,
		SettlementCurrencyCode: d.SettlementCurrencyCode,
		DueDate:                d.DueDate,
		PaidAmount:             d.PaidAmount,
		Status:                 string(d.Status),
		PaidDate:               d.PaidDate,
		Cancelled:              d.Cancelled,
		AuditFields:            toModelAudit(d.AuditFields),
	}
}

// ToDomainSchedule converts a model ObligationSchedule to a domain ObligationSchedule
func ToDomainSchedule(m models.ObligationSchedule) domain.ObligationSchedule {
	return domain.ObligationSchedule{
		ScheduleID:             m.ScheduleID,
		CounterpartyKind:       domain.CounterpartyKind(m.CounterpartyKind),
		CounterpartyID:         m.CounterpartyID,
		QuoteID:                m.QuoteID,
		Amount:                 m.Amount,
		CurrencyCode:           m.CurrencyCode,
		SettlementCurrencyCode: m.SettlementCurrencyCode,
		DueDate:                m.DueDate,
		PaidAmount:             m.PaidAmount,
		Status:                 domain.ScheduleStatus(m.Status),
		PaidDate:               m.PaidDate,
		Cancelled:              m.Cancelled,
		AuditFields:            toDomainAudit(m.AuditFields),
	}
}
