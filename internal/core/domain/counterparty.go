package domain

// CounterpartyKind identifies which population a payment or schedule belongs to.
type CounterpartyKind string

const (
	CounterpartyStudent   CounterpartyKind = "STUDENT"
	CounterpartyMentor    CounterpartyKind = "MENTOR"
	CounterpartyProfessor CounterpartyKind = "PROFESSOR"
)

// IsValid reports whether k is one of the known counterparty kinds.
func (k CounterpartyKind) IsValid() bool {
	switch k {
	case CounterpartyStudent, CounterpartyMentor, CounterpartyProfessor:
		return true
	}
	return false
}

// IsPayer reports whether money from this counterparty kind flows into the
// organization. Students pay the organization; mentors and professors are paid.
func (k CounterpartyKind) IsPayer() bool {
	return k == CounterpartyStudent
}

// Counterparty is the minimal identity the ledger needs about a student,
// mentor or professor. Full profiles live in the surrounding back office.
type Counterparty struct {
	CounterpartyID string           `json:"counterpartyID"`
	Kind           CounterpartyKind `json:"kind"`
	FullName       string           `json:"fullName"`
	IsActive       bool             `json:"isActive"`
}
