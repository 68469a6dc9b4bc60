package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/dbpkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
)

// RepoPGS is a PostgreSQL-backed account store.
//
// Per-account serialization and the non-negative balance rule map onto row
// locks taken by UPDATE and the accounts_balance_check constraint.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewRepoPGS returns an account RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// NewTxRepoPGS returns an account RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = "id, user_id, type, number, balance, created_at"

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Number,
		&a.Balance,
		&a.CreatedAt,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (user_id, type, number, balance)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + accountColumns

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.UserID, arg.Type, arg.Number, arg.Balance)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_user_id_fkey":
				return a, domain.ErrUserNotFound
			case "accounts_number_key":
				return a, domain.ErrAccountNumberAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByUserQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE user_id = $1
ORDER BY id
`

// ListByUser returns the user's accounts in insertion order.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByUserQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Number, &a.Balance, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const adjustBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING ` + accountColumns

// AdjustBalance applies balance += delta and returns the updated account.
func (r *RepoPGS) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, adjustBalanceQuery, delta, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

// TransferBalances debits amount from the account fromID and credits it to
// the account toID within a single database transaction.
//
// The two UPDATE statements run in ascending account id order so that the
// row locks of two opposite transfers are always requested in the same order.
func (r *RepoPGS) TransferBalances(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (domain.Account, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var fromAccount, toAccount domain.Account

	if fromID == toID {
		return fromAccount, toAccount, domain.ErrSameAccountTransfer
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return fromAccount, toAccount, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)

	if fromID < toID {
		fromAccount, err = txRepo.AdjustBalance(ctx, fromID, amount.Neg())
		if err == nil {
			toAccount, err = txRepo.AdjustBalance(ctx, toID, amount)
		}
	} else {
		toAccount, err = txRepo.AdjustBalance(ctx, toID, amount)
		if err == nil {
			fromAccount, err = txRepo.AdjustBalance(ctx, fromID, amount.Neg())
		}
	}

	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, domain.Account{}, errorspkg.ErrInternal
	}

	return fromAccount, toAccount, nil
}
