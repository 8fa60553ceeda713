package dto

import (
	"time"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new money account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required"`
	OwnerID      string             `json:"ownerID" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"required,currency"`
	AccountKind  domain.AccountKind `json:"accountKind" binding:"required,oneof=BANK CASH"`
	IsOrgOwned   bool               `json:"isOrgOwned"`
}

// UpdateAccountRequest defines the fields allowed to change on an account.
// The currency is immutable and deliberately absent.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

// AccountResponse mirrors domain.MoneyAccount plus the derived balance.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Name         string             `json:"name"`
	OwnerID      string             `json:"ownerID"`
	CurrencyCode string             `json:"currencyCode"`
	AccountKind  domain.AccountKind `json:"accountKind"`
	IsOrgOwned   bool               `json:"isOrgOwned"`
	IsActive     bool               `json:"isActive"`
	Balance      int64              `json:"balance"` // Minor units, derived from the journal
	CreatedAt    time.Time          `json:"createdAt"`
	CreatedBy    string             `json:"createdBy"`
}

// ToAccountResponse converts a domain.MoneyAccount and its derived balance.
func ToAccountResponse(acc *domain.MoneyAccount, balance int64) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		Name:         acc.Name,
		OwnerID:      acc.OwnerID,
		CurrencyCode: acc.CurrencyCode,
		AccountKind:  acc.AccountKind,
		IsOrgOwned:   acc.IsOrgOwned,
		IsActive:     acc.IsActive,
		Balance:      balance,
		CreatedAt:    acc.CreatedAt,
		CreatedBy:    acc.CreatedBy,
	}
}

// BalanceResponse is the result of a balance query.
type BalanceResponse struct {
	AccountID    string `json:"accountID"`
	CurrencyCode string `json:"currencyCode"`
	Balance      int64  `json:"balance"` // Minor units
}
