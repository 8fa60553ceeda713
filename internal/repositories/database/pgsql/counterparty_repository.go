package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/models"
	"github.com/studiaconsult/ledger_backend/internal/utils/mapping"
)

// PgxCounterpartyRepository reads the counterparty registry snapshot the
// surrounding back office maintains. The ledger never writes this table.
type PgxCounterpartyRepository struct {
	pool *pgxpool.Pool
}

func newPgxCounterpartyRepository(pool *pgxpool.Pool) portsrepo.CounterpartyReader {
	return &PgxCounterpartyRepository{pool: pool}
}

var _ portsrepo.CounterpartyReader = (*PgxCounterpartyRepository)(nil)

// FindCounterparty retrieves a counterparty by kind and identifier.
func (r *PgxCounterpartyRepository) FindCounterparty(ctx context.Context, kind domain.CounterpartyKind, counterpartyID string) (*domain.Counterparty, error) {
	query := `
		SELECT counterparty_id, kind, full_name, is_active
		FROM counterparties
		WHERE kind = $1 AND counterparty_id = $2;
	`
	var m models.Counterparty
	err := r.pool.QueryRow(ctx, query, string(kind), counterpartyID).Scan(
		&m.CounterpartyID, &m.Kind, &m.FullName, &m.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, counterpartyID))
		}
		return nil, fmt.Errorf("failed to find counterparty: %w", err)
	}

	counterparty := mapping.ToDomainCounterparty(m)
	return &counterparty, nil
}
