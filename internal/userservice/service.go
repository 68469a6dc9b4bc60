// Package userservice manages the business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
	"github.com/NarwhalsOrg/BankingApp/pkg/passpkg"
)

// Repo provides the data access layer interface needed by the user service layer.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) (domain.User, error)
}

// AccountProvisioner creates accounts for newly registered users.
type AccountProvisioner interface {
	Create(ctx context.Context, userID int64, accountType domain.AccountType, balance decimal.Decimal) (domain.Account, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo     Repo
	accounts AccountProvisioner
}

// New returns a user service struct to manage user business logic.
func New(ur Repo, ap AccountProvisioner) *Service {
	return &Service{
		repo:     ur,
		accounts: ap,
	}
}

// Every new user gets these accounts with their opening balances.
var defaultAccounts = []struct {
	Type    domain.AccountType
	Balance decimal.Decimal
}{
	{domain.Checking, decimal.RequireFromString("2500.00")},
	{domain.Savings, decimal.RequireFromString("10000.00")},
	{domain.Credit, decimal.RequireFromString("0.00")},
}

// NewUserWithoutPassword returns the user with sensitive data removed.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterParams is the input data to register a user.
type RegisterParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Register creates the user and provisions its default accounts.
func (s *Service) Register(ctx context.Context, arg RegisterParams) (domain.UserWithoutPassword, []domain.Account, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(arg.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserWithoutPassword{}, nil, errorspkg.ErrInternal
	}

	user, err := s.repo.Create(ctx, domain.CreateUserParams{
		Email:          arg.Email,
		HashedPassword: hashedPassword,
		FirstName:      arg.FirstName,
		LastName:       arg.LastName,
		Phone:          arg.Phone,
	})
	if err != nil {
		return domain.UserWithoutPassword{}, nil, err
	}

	accounts := make([]domain.Account, 0, len(defaultAccounts))

	for _, da := range defaultAccounts {
		account, err := s.accounts.Create(ctx, user.ID, da.Type, da.Balance)
		if err != nil {
			l.Error().Err(err).Int64("user_id", user.ID).Msg("default account provisioning failed")
			return domain.UserWithoutPassword{}, nil, errorspkg.ErrInternal
		}

		accounts = append(accounts, account)
	}

	return NewUserWithoutPassword(user), accounts, nil
}

// Authenticate checks the email/password pair and returns the matching user.
//
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.UserWithoutPassword{}, domain.ErrInvalidCredentials
		}

		return domain.UserWithoutPassword{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.UserWithoutPassword{}, domain.ErrInvalidCredentials
	}

	return NewUserWithoutPassword(user), nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.UserWithoutPassword, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(user), nil
}

// UpdateProfile replaces the user's contact fields.
func (s *Service) UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.UserWithoutPassword, error) {
	user, err := s.repo.UpdateProfile(ctx, arg)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(user), nil
}

// ChangePassword re-verifies the current password and replaces it with the new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := passpkg.Check(currentPassword, user.HashedPassword); err != nil {
		return domain.ErrWrongPassword
	}

	hashedPassword, err := passpkg.Hash(newPassword)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err := s.repo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	return nil
}
