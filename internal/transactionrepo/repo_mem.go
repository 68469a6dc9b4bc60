// Package transactionrepo manages the storage layer of the transaction ledger.
package transactionrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/identpkg"
)

// RepoMem is an in-memory append-only transaction ledger.
//
// Records are immutable once appended; the log only ever grows.
type RepoMem struct {
	seq identpkg.Sequence

	mu        sync.RWMutex
	log       []domain.Transaction // append order
	byID      map[int64]int
	byUser    map[int64][]int
	byAccount map[int64][]int
}

// NewRepoMem returns an empty in-memory ledger.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		byID:      make(map[int64]int),
		byUser:    make(map[int64][]int),
		byAccount: make(map[int64][]int),
	}
}

// store appends the record to the log and indexes. The caller must hold r.mu.
func (r *RepoMem) store(arg domain.AppendTransactionParams) domain.Transaction {
	tx := domain.Transaction{
		ID:                    r.seq.Next(),
		UserID:                arg.UserID,
		AccountID:             arg.AccountID,
		Type:                  arg.Type,
		Amount:                arg.Amount,
		Description:           arg.Description,
		CounterpartyAccountID: arg.CounterpartyAccountID,
		CreatedAt:             time.Now().UTC(),
	}

	idx := len(r.log)
	r.log = append(r.log, tx)
	r.byID[tx.ID] = idx
	r.byUser[tx.UserID] = append(r.byUser[tx.UserID], idx)
	r.byAccount[tx.AccountID] = append(r.byAccount[tx.AccountID], idx)

	return tx
}

// Append assigns id and timestamp to the record, stores it and returns it.
func (r *RepoMem) Append(ctx context.Context, arg domain.AppendTransactionParams) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store(arg), nil
}

// AppendPair stores a transfer's debit and credit legs as one atomic unit:
// no reader can ever observe one leg without the other.
func (r *RepoMem) AppendPair(ctx context.Context, debit, credit domain.AppendTransactionParams) (domain.Transaction, domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store(debit), r.store(credit), nil
}

// Get returns the transaction with the given id.
func (r *RepoMem) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return r.log[idx], nil
}

// newestFirst resolves the indexes into records sorted by timestamp
// descending, ties broken by insertion order descending. The caller must
// hold r.mu.
func (r *RepoMem) newestFirst(idxs []int) []domain.Transaction {
	items := make([]domain.Transaction, 0, len(idxs))

	for i := len(idxs) - 1; i >= 0; i-- {
		items = append(items, r.log[idxs[i]])
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items
}

// ListByUser returns the user's transactions, newest first.
func (r *RepoMem) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestFirst(r.byUser[userID]), nil
}

// ListByAccount returns the transactions posted against the account, newest first.
func (r *RepoMem) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestFirst(r.byAccount[accountID]), nil
}
