package domain

// AccountKind distinguishes bank accounts from cash boxes.
type AccountKind string

const (
	AccountBank AccountKind = "BANK"
	AccountCash AccountKind = "CASH"
)

// MoneyAccount represents a bank or cash account money moves through.
//
// There is deliberately no Balance field: the balance is always derived by
// aggregating the transaction journal, so it can never drift from it.
type MoneyAccount struct {
	AccountID    string      `json:"accountID"`    // Primary Key (UUID)
	Name         string      `json:"name"`         // User-defined label
	OwnerID      string      `json:"ownerID"`      // Owning party reference
	CurrencyCode string      `json:"currencyCode"` // Immutable after creation
	AccountKind  AccountKind `json:"accountKind"`  // BANK or CASH
	IsOrgOwned   bool        `json:"isOrgOwned"`   // Organization-owned vs individual-owned
	IsActive     bool        `json:"isActive"`     // Soft-deactivation flag
	AuditFields
}
