package mapping

import (
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/models"
)

// ToModelAccount converts a domain MoneyAccount to a model MoneyAccount
func ToModelAccount(d domain.MoneyAccount) models.MoneyAccount {
	return models.MoneyAccount{
		AccountID:    d.AccountID,
		Name:         d.Name,
		OwnerID:      d.OwnerID,
		CurrencyCode: d.CurrencyCode,
		AccountKind:  string(d.AccountKind),
		IsOrgOwned:   d.IsOrgOwned,
		IsActive:     d.IsActive,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainAccount converts a model MoneyAccount to a domain MoneyAccount
func ToDomainAccount(m models.MoneyAccount) domain.MoneyAccount {
	return domain.MoneyAccount{
		AccountID:    m.AccountID,
		Name:         m.Name,
		OwnerID:      m.OwnerID,
		CurrencyCode: m.CurrencyCode,
		AccountKind:  domain.AccountKind(m.AccountKind),
		IsOrgOwned:   m.IsOrgOwned,
		IsActive:     m.IsActive,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}
