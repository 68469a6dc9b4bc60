package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
	"github.com/NarwhalsOrg/BankingApp/pkg/randompkg"
)

func createUser(t *testing.T, r *RepoMem) domain.User {
	t.Helper()

	u, err := r.Create(context.Background(), domain.CreateUserParams{
		Email:          randompkg.Email(),
		HashedPassword: randompkg.String(60),
		FirstName:      randompkg.Name(),
		LastName:       randompkg.Name(),
		Phone:          randompkg.Phone(),
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	return u
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	r := NewRepoMem()

	u := createUser(t, r)

	_, err := r.Create(context.Background(), domain.CreateUserParams{
		Email:          u.Email,
		HashedPassword: randompkg.String(60),
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestGetAndGetByEmail(t *testing.T) {
	t.Parallel()

	r := NewRepoMem()
	ctx := context.Background()

	want := createUser(t, r)

	got, err := r.Get(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = r.GetByEmail(ctx, want.Email)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = r.Get(ctx, want.ID+100)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = r.GetByEmail(ctx, "nobody@email.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	r := NewRepoMem()
	ctx := context.Background()

	u := createUser(t, r)
	other := createUser(t, r)

	arg := domain.UpdateProfileParams{
		ID:        u.ID,
		Email:     randompkg.Email(),
		FirstName: randompkg.Name(),
		LastName:  randompkg.Name(),
		Phone:     randompkg.Phone(),
	}

	got, err := r.UpdateProfile(ctx, arg)
	require.NoError(t, err)
	require.Equal(t, arg.Email, got.Email)
	require.Equal(t, arg.FirstName, got.FirstName)
	require.Equal(t, u.HashedPassword, got.HashedPassword)

	// Old email is released, new one is taken.
	_, err = r.GetByEmail(ctx, u.Email)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	arg.ID = other.ID
	_, err = r.UpdateProfile(ctx, arg)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	arg.ID = u.ID + 100
	arg.Email = randompkg.Email()
	_, err = r.UpdateProfile(ctx, arg)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	r := NewRepoMem()
	ctx := context.Background()

	u := createUser(t, r)

	got, err := r.UpdatePassword(ctx, u.ID, "new-hash")
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.HashedPassword)
	require.NotZero(t, got.PasswordChangedAt)

	_, err = r.UpdatePassword(ctx, u.ID+100, "new-hash")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
