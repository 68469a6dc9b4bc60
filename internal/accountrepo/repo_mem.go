// Package accountrepo manages the storage layer of accounts.
package accountrepo

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/identpkg"
)

// RepoMem is an in-memory account store.
//
// The maps are guarded by mu. Every stored account additionally carries its
// own lock so that balance read-modify-writes are serialized per account id:
// two concurrent adjustments never read the same stale balance.
type RepoMem struct {
	seq identpkg.Sequence

	mu       sync.RWMutex
	accounts map[int64]*record
	byNumber map[string]int64
	byUser   map[int64][]int64 // account ids in insertion order
}

type record struct {
	mu      sync.Mutex
	account domain.Account
}

// NewRepoMem returns an empty in-memory account store.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		accounts: make(map[int64]*record),
		byNumber: make(map[string]int64),
		byUser:   make(map[int64][]int64),
	}
}

// Create stores a new account and returns it with an assigned id.
func (r *RepoMem) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[arg.Number]; ok {
		return domain.Account{}, domain.ErrAccountNumberAlreadyExists
	}

	a := domain.Account{
		ID:        r.seq.Next(),
		UserID:    arg.UserID,
		Type:      arg.Type,
		Number:    arg.Number,
		Balance:   arg.Balance,
		CreatedAt: time.Now().UTC(),
	}

	r.accounts[a.ID] = &record{account: a}
	r.byNumber[a.Number] = a.ID
	r.byUser[a.UserID] = append(r.byUser[a.UserID], a.ID)

	return a, nil
}

func (r *RepoMem) find(id int64) (*record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return rec, nil
}

// Get returns the account with the given id.
func (r *RepoMem) Get(ctx context.Context, id int64) (domain.Account, error) {
	rec, err := r.find(id)
	if err != nil {
		return domain.Account{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.account, nil
}

// ListByUser returns the user's accounts in insertion order.
func (r *RepoMem) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	r.mu.RLock()
	ids := append([]int64(nil), r.byUser[userID]...)
	r.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(ids))

	for _, id := range ids {
		a, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	return accounts, nil
}

// adjust applies delta to the record's balance. The caller must hold rec.mu.
//
// A non-credit balance never goes negative, mirroring the balance CHECK
// constraint of the SQL schema. The funds policy itself lives in the
// transfer coordinator; this is the storage integrity backstop.
func adjust(rec *record, delta decimal.Decimal) (domain.Account, error) {
	balance := rec.account.Balance.Add(delta)

	if rec.account.Type != domain.Credit && balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	rec.account.Balance = balance

	return rec.account, nil
}

// AdjustBalance applies balance += delta and returns the updated account.
//
// This is the only single-account mutation path for balances.
func (r *RepoMem) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (domain.Account, error) {
	rec, err := r.find(id)
	if err != nil {
		return domain.Account{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return adjust(rec, delta)
}

// TransferBalances debits amount from the account fromID and credits it to
// the account toID as a single atomic unit: either both balances change or
// neither does.
//
// Both per-account locks are acquired before either balance changes, always
// in ascending id order, so two opposite transfers between the same pair of
// accounts cannot deadlock.
func (r *RepoMem) TransferBalances(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (domain.Account, domain.Account, error) {
	if fromID == toID {
		return domain.Account{}, domain.Account{}, domain.ErrSameAccountTransfer
	}

	from, err := r.find(fromID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	to, err := r.find(toID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	first, second := from, to
	if toID < fromID {
		first, second = to, from
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	fromAccount, err := adjust(from, amount.Neg())
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	toAccount, err := adjust(to, amount)
	if err != nil {
		from.account.Balance = from.account.Balance.Add(amount)
		return domain.Account{}, domain.Account{}, err
	}

	return fromAccount, toAccount, nil
}
