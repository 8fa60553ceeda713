package domain

// Currency represents a supported settlement currency.
// The set is closed: the back office only moves money in EUR, MAD and USD.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code, e.g. "EUR"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // minor-unit digits, e.g. 2 for cents
}

// SupportedCurrencies is the closed set of currencies the ledger accepts.
// Amounts are stored as int64 minor units; Precision converts them for display.
var SupportedCurrencies = map[string]Currency{
	"EUR": {CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2},
	"MAD": {CurrencyCode: "MAD", Symbol: "DH", Name: "Moroccan Dirham", Precision: 2},
	"USD": {CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
}

// IsSupportedCurrency reports whether code belongs to the closed currency set.
func IsSupportedCurrency(code string) bool {
	_, ok := SupportedCurrencies[code]
	return ok
}

// CurrencyByCode returns the currency definition for a supported code.
func CurrencyByCode(code string) (Currency, bool) {
	c, ok := SupportedCurrencies[code]
	return c, ok
}

// ListCurrencies returns the supported currencies in a stable order.
func ListCurrencies() []Currency {
	return []Currency{
		SupportedCurrencies["EUR"],
		SupportedCurrencies["MAD"],
		SupportedCurrencies["USD"],
	}
}
