package models

// Counterparty is the database row for the minimal registry snapshot of a
// student, mentor or professor the ledger transacts with.
type Counterparty struct {
	CounterpartyID string `db:"counterparty_id"`
	Kind           string `db:"kind"`
	FullName       string `db:"full_name"`
	IsActive       bool   `db:"is_active"`
}
