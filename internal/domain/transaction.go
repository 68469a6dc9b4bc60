package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrSameAccountTransfer indicates a transfer where source and destination are the same account.
	ErrSameAccountTransfer = errors.New("source and destination accounts are the same")
	// ErrNonPositiveAmount indicates a zero or negative operation amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// TransactionType enumerates the supported money movement operations.
type TransactionType string

// Supported transaction types.
const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Transfer   TransactionType = "transfer"
)

// Transaction holds a single immutable ledger record posted against an account.
//
// Amount is signed: positive credits the posted account, negative debits it.
// CounterpartyAccountID is set only on the debit leg of a transfer and points
// at the credit leg's account; zero means no counterparty.
type Transaction struct {
	ID                    int64           `json:"id"`
	UserID                int64           `json:"user_id"`
	AccountID             int64           `json:"account_id"`
	Type                  TransactionType `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description"`
	CounterpartyAccountID int64           `json:"counterparty_account_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// AppendTransactionParams is the input data to append a ledger record.
type AppendTransactionParams struct {
	UserID                int64           `json:"user_id"`
	AccountID             int64           `json:"account_id"`
	Type                  TransactionType `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description"`
	CounterpartyAccountID int64           `json:"counterparty_account_id"`
}
