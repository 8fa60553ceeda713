package models

// MoneyAccount is the database row for a bank or cash account.
// There is no balance column; balances are derived from the journal.
type MoneyAccount struct {
	AccountID    string `db:"account_id"`
	Name         string `db:"name"`
	OwnerID      string `db:"owner_id"`
	CurrencyCode string `db:"currency_code"`
	AccountKind  string `db:"account_kind"`
	IsOrgOwned   bool   `db:"is_org_owned"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
