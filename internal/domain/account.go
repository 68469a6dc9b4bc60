package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNumberAlreadyExists indicates that the account number is already taken.
	ErrAccountNumberAlreadyExists = errors.New("account number already exists")
	// ErrAccountOwnerMismatch indicates that the account does not belong to the caller.
	ErrAccountOwnerMismatch = errors.New("account does not belong to the caller")
	// ErrInsufficientFunds indicates that the debit exceeds the balance of a non-credit account.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountType enumerates the supported account types.
type AccountType string

// Supported account types. Credit accounts are exempt from the
// insufficient-funds check and may carry a negative balance.
const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
)

// IsValid reports whether t is a supported account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit:
		return true
	}

	return false
}

// Account holds balance data for a single account of a user.
//
// Number is globally unique and immutable after creation. Balance is a
// 2-decimal fixed-point value and mutates only through the store's
// balance-adjustment operations.
type Account struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Type      AccountType     `json:"type"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data for account creation.
type CreateAccountParams struct {
	UserID  int64           `json:"user_id"`
	Type    AccountType     `json:"type"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}
