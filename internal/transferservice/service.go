// Package transferservice coordinates the money movement operations.
//
// It owns no state of its own: every balance change goes through the account
// store and every record through the ledger, composed so that the caller can
// never observe money created or destroyed. Credit-type accounts are exempt
// from the insufficient-funds check with no ceiling; that is a deliberate
// business-rule choice (an unbounded credit line), not an oversight.
package transferservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/errorspkg"
)

// AccountStore provides the account access interface needed by the coordinator.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type AccountStore interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (domain.Account, error)
	TransferBalances(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (domain.Account, domain.Account, error)
}

// Ledger provides the transaction log interface needed by the coordinator.
type Ledger interface {
	Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error)
	AppendPair(ctx context.Context, debit, credit domain.AppendTransactionParams) (domain.Transaction, domain.Transaction, error)
}

// Service facilitates deposit, withdrawal and transfer business logic.
type Service struct {
	accounts AccountStore
	ledger   Ledger
}

// New returns a transfer service struct to coordinate money movements.
func New(accounts AccountStore, ledger Ledger) *Service {
	return &Service{
		accounts: accounts,
		ledger:   ledger,
	}
}

// DepositParams is the input data for a deposit.
type DepositParams struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// WithdrawParams is the input data for a withdrawal.
type WithdrawParams struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferParams is the input data for a transfer between two accounts.
type TransferParams struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// resolveOwned returns the account if it exists and belongs to the caller.
func (s *Service) resolveOwned(ctx context.Context, callerUserID, accountID int64) (domain.Account, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	if account.UserID != callerUserID {
		return domain.Account{}, domain.ErrAccountOwnerMismatch
	}

	return account, nil
}

// checkFunds applies the funds-availability rule: a non-credit account must
// cover the debit from its balance. Credit accounts always pass.
func checkFunds(account domain.Account, amount decimal.Decimal) error {
	if account.Type != domain.Credit && account.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// Deposit credits the caller's account and records the deposit.
func (s *Service) Deposit(ctx context.Context, callerUserID int64, arg DepositParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrNonPositiveAmount
	}

	if _, err := s.resolveOwned(ctx, callerUserID, arg.AccountID); err != nil {
		return domain.Transaction{}, err
	}

	if _, err := s.accounts.AdjustBalance(ctx, arg.AccountID, arg.Amount); err != nil {
		return domain.Transaction{}, err
	}

	transaction, err := s.ledger.Append(ctx, domain.AppendTransactionParams{
		UserID:      callerUserID,
		AccountID:   arg.AccountID,
		Type:        domain.Deposit,
		Amount:      arg.Amount,
		Description: arg.Description,
	})
	if err != nil {
		l.Error().Err(err).Msg("deposit ledger append failed, compensating")

		if _, cerr := s.accounts.AdjustBalance(ctx, arg.AccountID, arg.Amount.Neg()); cerr != nil {
			l.Error().Err(cerr).Msg("compensating adjustment failed")
		}

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return transaction, nil
}

// Withdraw debits the caller's account and records the withdrawal.
//
// A non-credit account whose balance does not cover the amount is left
// untouched and the call fails with domain.ErrInsufficientFunds.
func (s *Service) Withdraw(ctx context.Context, callerUserID int64, arg WithdrawParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrNonPositiveAmount
	}

	account, err := s.resolveOwned(ctx, callerUserID, arg.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := checkFunds(account, arg.Amount); err != nil {
		return domain.Transaction{}, err
	}

	// The store re-enforces the funds rule under its per-account lock, so a
	// concurrent debit between the check above and this call still cannot
	// overdraw the account.
	if _, err := s.accounts.AdjustBalance(ctx, arg.AccountID, arg.Amount.Neg()); err != nil {
		return domain.Transaction{}, err
	}

	transaction, err := s.ledger.Append(ctx, domain.AppendTransactionParams{
		UserID:      callerUserID,
		AccountID:   arg.AccountID,
		Type:        domain.Withdrawal,
		Amount:      arg.Amount.Neg(),
		Description: arg.Description,
	})
	if err != nil {
		l.Error().Err(err).Msg("withdrawal ledger append failed, compensating")

		if _, cerr := s.accounts.AdjustBalance(ctx, arg.AccountID, arg.Amount); cerr != nil {
			l.Error().Err(cerr).Msg("compensating adjustment failed")
		}

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return transaction, nil
}

// Transfer moves amount from the caller's account to the destination account
// and records the paired debit and credit legs. The destination may belong
// to any user. The debit leg is returned as the primary result.
func (s *Service) Transfer(ctx context.Context, callerUserID int64, arg TransferParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if arg.FromAccountID == arg.ToAccountID {
		return domain.Transaction{}, domain.ErrSameAccountTransfer
	}

	if !arg.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrNonPositiveAmount
	}

	fromAccount, err := s.resolveOwned(ctx, callerUserID, arg.FromAccountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	toAccount, err := s.accounts.Get(ctx, arg.ToAccountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := checkFunds(fromAccount, arg.Amount); err != nil {
		return domain.Transaction{}, err
	}

	fromAccount, _, err = s.accounts.TransferBalances(ctx, arg.FromAccountID, arg.ToAccountID, arg.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	debit := domain.AppendTransactionParams{
		UserID:                callerUserID,
		AccountID:             arg.FromAccountID,
		Type:                  domain.Transfer,
		Amount:                arg.Amount.Neg(),
		Description:           arg.Description,
		CounterpartyAccountID: arg.ToAccountID,
	}

	// The credit leg carries no counterparty link; the pairing is recorded on
	// the debit side and the description names the source account.
	credit := domain.AppendTransactionParams{
		UserID:      toAccount.UserID,
		AccountID:   arg.ToAccountID,
		Type:        domain.Transfer,
		Amount:      arg.Amount,
		Description: fmt.Sprintf("Transfer from account %s", fromAccount.Number),
	}

	debitLeg, _, err := s.ledger.AppendPair(ctx, debit, credit)
	if err != nil {
		l.Error().Err(err).Msg("transfer ledger append failed, compensating")

		if _, _, cerr := s.accounts.TransferBalances(ctx, arg.ToAccountID, arg.FromAccountID, arg.Amount); cerr != nil {
			l.Error().Err(cerr).Msg("compensating transfer failed")
		}

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return debitLeg, nil
}
