// Package accountservice manages the business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/identpkg"
)

// Repo provides the data access layer interface needed by the account service layer.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns an account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// maxNumberAttempts bounds retries when a generated account number collides
// with an existing one.
const maxNumberAttempts = 5

// Create provisions an account of the given type with the given opening
// balance, generating a unique account number.
func (s *Service) Create(ctx context.Context, userID int64, accountType domain.AccountType, balance decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := identpkg.Number(identpkg.NumberLength)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}

		account, err := s.repo.Create(ctx, domain.CreateAccountParams{
			UserID:  userID,
			Type:    accountType,
			Number:  number,
			Balance: balance,
		})
		if err == domain.ErrAccountNumberAlreadyExists {
			continue
		}

		return account, err
	}

	l.Error().Int("attempts", maxNumberAttempts).Msg("account number generation kept colliding")

	return domain.Account{}, errorspkg.ErrInternal
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// ListByUser returns the accounts owned by the given user, oldest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}
