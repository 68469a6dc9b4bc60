package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/dbpkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
)

// RepoPGS is a PostgreSQL-backed transaction ledger.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewRepoPGS returns a ledger RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// NewTxRepoPGS returns a ledger RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const transactionColumns = "id, user_id, account_id, type, amount, description, counterparty_account_id, created_at"

func scanTransaction(scan func(...interface{}) error) (domain.Transaction, error) {
	var (
		t            domain.Transaction
		counterparty sql.NullInt64
	)

	err := scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&counterparty,
		&t.CreatedAt,
	)

	if counterparty.Valid {
		t.CounterpartyAccountID = counterparty.Int64
	}

	return t, err
}

const appendQuery = `
INSERT INTO
    transactions (user_id, account_id, type, amount, description, counterparty_account_id)
VALUES
    ($1, $2, $3, $4, $5, NULLIF($6, 0))
RETURNING ` + transactionColumns

// Append stores the record and returns it with assigned id and timestamp.
func (r *RepoPGS) Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, appendQuery,
		arg.UserID,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.Description,
		arg.CounterpartyAccountID,
	)

	t, err := scanTransaction(row.Scan)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// AppendPair stores a transfer's debit and credit legs within a single
// database transaction.
func (r *RepoPGS) AppendPair(ctx context.Context, debit, credit domain.AppendTransactionParams) (domain.Transaction, domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var debitLeg, creditLeg domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return debitLeg, creditLeg, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)

	debitLeg, err = txRepo.Append(ctx, debit)
	if err != nil {
		return domain.Transaction{}, domain.Transaction{}, err
	}

	creditLeg, err = txRepo.Append(ctx, credit)
	if err != nil {
		return domain.Transaction{}, domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, domain.Transaction{}, errorspkg.ErrInternal
	}

	return debitLeg, creditLeg, nil
}

const getQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	t, err := scanTransaction(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByUserQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

const listByAccountQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *RepoPGS) list(ctx context.Context, query string, key int64) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, key)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// ListByUser returns the user's transactions, newest first.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return r.list(ctx, listByUserQuery, userID)
}

// ListByAccount returns the transactions posted against the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}
