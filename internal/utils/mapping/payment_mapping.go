package mapping

import (
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:        d.PaymentID,
		CounterpartyKind: string(d.CounterpartyKind),
		CounterpartyID:   d.CounterpartyID,
		Amount:           d.Amount,
		CurrencyCode:     d.CurrencyCode,
		PaymentDate:      d.PaymentDate,
		BankAccountID:    d.BankAccountID,
		ValidatedBy:      d.ValidatedBy,
		Status:           string(d.Status),
		Notes:            d.Notes,
		AuditFields:      toModelAudit(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:        m.PaymentID,
		CounterpartyKind: domain.CounterpartyKind(m.CounterpartyKind),
		CounterpartyID:   m.CounterpartyID,
		Amount:           m.Amount,
		CurrencyCode:     m.CurrencyCode,
		PaymentDate:      m.PaymentDate,
		BankAccountID:    m.BankAccountID,
		ValidatedBy:      m.ValidatedBy,
		Status:           domain.PaymentStatus(m.Status),
		Notes:            m.Notes,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}

// ToModelAllocation converts a domain PaymentAllocation to a model PaymentAllocation
func ToModelAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID: d.AllocationID,
		PaymentID:    d.PaymentID,
		ScheduleID:   d.ScheduleID,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainAllocation converts a model PaymentAllocation to a domain PaymentAllocation
func ToDomainAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID: m.AllocationID,
		PaymentID:    m.PaymentID,
		ScheduleID:   m.ScheduleID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}
