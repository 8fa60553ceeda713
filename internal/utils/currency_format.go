package utils

import (
	"github.com/shopspring/decimal"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// FormatMinorUnits renders an integer minor-unit amount as a decimal string
// using the precision of the given currency, e.g. 150000 EUR -> "1500.00".
// Amounts are stored and computed as integers; decimals exist only at the
// display boundary.
func FormatMinorUnits(amount int64, currencyCode string) string {
	precision := int32(2)
	if cur, ok := domain.CurrencyByCode(currencyCode); ok {
		precision = int32(cur.Precision)
	}
	return decimal.New(amount, -precision).StringFixed(precision)
}
