package mapping

import (
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		Number:               d.Number,
		Date:                 d.Date,
		Type:                 string(d.Type),
		Amount:               d.Amount,
		CurrencyCode:         d.CurrencyCode,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		PaymentID:            d.PaymentID,
		ScheduleID:           d.ScheduleID,
		MissionID:            d.MissionID,
		DistributionID:       d.DistributionID,
		ExpenseID:            d.ExpenseID,
		Description:          d.Description,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		Number:               m.Number,
		Date:                 m.Date,
		Type:                 domain.TransactionType(m.Type),
		Amount:               m.Amount,
		CurrencyCode:         m.CurrencyCode,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		PaymentID:            m.PaymentID,
		ScheduleID:           m.ScheduleID,
		MissionID:            m.MissionID,
		DistributionID:       m.DistributionID,
		ExpenseID:            m.ExpenseID,
		Description:          m.Description,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}
