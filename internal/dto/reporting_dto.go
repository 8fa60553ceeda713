package dto

import "time"

// AccountBalanceRow is one line of the account balances report.
type AccountBalanceRow struct {
	AccountID        string `json:"accountID"`
	Name             string `json:"name"`
	CurrencyCode     string `json:"currencyCode"`
	IsActive         bool   `json:"isActive"`
	Balance          int64  `json:"balance"`          // Minor units
	BalanceFormatted string `json:"balanceFormatted"` // Display string, currency precision applied
}

// AccountBalancesReport aggregates derived balances across all accounts.
type AccountBalancesReport struct {
	Rows        []AccountBalanceRow `json:"rows"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
