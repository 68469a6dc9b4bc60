// Package userrepo manages the storage layer of users.
package userrepo

import (
	"context"
	"sync"
	"time"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/identpkg"
)

// RepoMem is an in-memory user store.
type RepoMem struct {
	seq identpkg.Sequence

	mu      sync.RWMutex
	users   map[int64]domain.User
	byEmail map[string]int64
}

// NewRepoMem returns an empty in-memory user store.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		users:   make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

// Create stores a new user and returns it with an assigned id.
func (r *RepoMem) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[arg.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists
	}

	u := domain.User{
		ID:             r.seq.Next(),
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		FirstName:      arg.FirstName,
		LastName:       arg.LastName,
		Phone:          arg.Phone,
		CreatedAt:      time.Now().UTC(),
	}

	r.users[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

// Get returns the user with the given id.
func (r *RepoMem) Get(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return u, nil
}

// GetByEmail returns the user with the given email.
func (r *RepoMem) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return r.users[id], nil
}

// UpdateProfile replaces the user's contact fields and returns the updated user.
func (r *RepoMem) UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[arg.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	if arg.Email != u.Email {
		if _, taken := r.byEmail[arg.Email]; taken {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}

		delete(r.byEmail, u.Email)
		r.byEmail[arg.Email] = u.ID
		u.Email = arg.Email
	}

	u.FirstName = arg.FirstName
	u.LastName = arg.LastName
	u.Phone = arg.Phone

	r.users[u.ID] = u

	return u, nil
}

// UpdatePassword replaces the user's password material and returns the updated user.
func (r *RepoMem) UpdatePassword(ctx context.Context, id int64, hashedPassword string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	u.HashedPassword = hashedPassword
	u.PasswordChangedAt = time.Now().UTC()

	r.users[id] = u

	return u, nil
}
