package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx repositories over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		ScheduleRepo:     newPgxScheduleRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		CounterpartyRepo: newPgxCounterpartyRepository(dbPool),
	}
}
