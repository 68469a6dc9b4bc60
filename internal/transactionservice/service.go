// Package transactionservice manages read access to the transaction ledger.
package transactionservice

import (
	"context"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
)

// Repo provides the data access layer interface needed by the transaction service layer.
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// AccountGetter resolves accounts for ownership checks.
type AccountGetter interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo     Repo
	accounts AccountGetter
}

// New returns a transaction service struct to manage ledger reads.
func New(tr Repo, ag AccountGetter) *Service {
	return &Service{
		repo:     tr,
		accounts: ag,
	}
}

// Get returns the transaction with the given id if the caller owns it.
func (s *Service) Get(ctx context.Context, callerUserID, id int64) (domain.Transaction, error) {
	transaction, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	if transaction.UserID != callerUserID {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return transaction, nil
}

// ListByUser returns the user's transactions, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByAccount returns the transactions of one of the caller's accounts, newest first.
func (s *Service) ListByAccount(ctx context.Context, callerUserID, accountID int64) ([]domain.Transaction, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.UserID != callerUserID {
		return nil, domain.ErrAccountOwnerMismatch
	}

	return s.repo.ListByAccount(ctx, accountID)
}
