package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	"github.com/studiaconsult/ledger_backend/internal/models"
	"github.com/studiaconsult/ledger_backend/internal/utils/mapping"
	"github.com/studiaconsult/ledger_backend/internal/utils/pagination"
)

// PgxJournalRepository persists the append-only transaction journal.
// There are no UPDATE or DELETE statements in this file on purpose.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const transactionColumns = `transaction_id, number, date, type, amount, currency_code, source_account_id, destination_account_id, payment_id, schedule_id, mission_id, distribution_id, expense_id, description, created_at, created_by`

// insertTransactionQuery assigns the sequential human-readable number from a
// database sequence inside the insert itself, so concurrent writers never
// race for the same number.
const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, 'TRX-' || to_char(nextval('transaction_number_seq'), 'FM000000'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING number;
`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.Number, &m.Date, &m.Type, &m.Amount, &m.CurrencyCode,
		&m.SourceAccountID, &m.DestinationAccountID,
		&m.PaymentID, &m.ScheduleID, &m.MissionID, &m.DistributionID, &m.ExpenseID,
		&m.Description, &m.CreatedAt, &m.CreatedBy,
	)
	return m, err
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxJournalRepository) saveTransaction(ctx context.Context, db execer, txn domain.Transaction) (*domain.Transaction, error) {
	m := mapping.ToModelTransaction(txn)

	err := db.QueryRow(ctx, insertTransactionQuery,
		m.TransactionID, m.Date, m.Type, m.Amount, m.CurrencyCode,
		m.SourceAccountID, m.DestinationAccountID,
		m.PaymentID, m.ScheduleID, m.MissionID, m.DistributionID, m.ExpenseID,
		m.Description, m.CreatedAt, m.CreatedBy,
	).Scan(&m.Number)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.NewAppError(409, "journal entry already exists", apperrors.ErrDuplicate)
			case "23503":
				return nil, apperrors.NewNotFoundError("referenced account does not exist")
			}
		}
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	saved := mapping.ToDomainTransaction(m)
	return &saved, nil
}

// SaveTransaction appends one journal entry, assigning the next number.
func (r *PgxJournalRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	return r.saveTransaction(ctx, r.pool, txn)
}

// SaveTransactionTx is SaveTransaction inside a caller-owned transaction.
func (r *PgxJournalRepository) SaveTransactionTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	return r.saveTransaction(ctx, tx, txn)
}

// FindTransactionByID retrieves a single journal entry.
func (r *PgxJournalRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccount retrieves a page of entries touching the account,
// newest first, with keyset pagination on (date, created_at).
func (r *PgxJournalRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (source_account_id = $1 OR destination_account_id = $1)
	`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		date, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (date, created_at) < ($2, $3)`
		args = append(args, date, createdAt)
	}

	// Fetch one extra row to know whether a next page exists.
	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}
	return txns, token, nil
}

// ComputeBalance derives the account balance by aggregating the full journal.
func (r *PgxJournalRepository) ComputeBalance(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN destination_account_id = $1 THEN amount ELSE 0 END), 0)
			- COALESCE(SUM(CASE WHEN source_account_id = $1 THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1;
	`
	var balance int64
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}
