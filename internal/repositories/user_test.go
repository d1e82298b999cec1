package repositories

import (
	"context"
	"io"
	"testing"

	"github.com/adermis/adermis/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	repo := NewUserRepository(db, logger)
	ctx := context.Background()

	id, err := repo.Register(ctx, "ada@example.com", "Ada", "correct horse battery staple")
	require.NoError(t, err)
	require.NotZero(t, id)

	t.Run("duplicate email", func(t *testing.T) {
		_, err = repo.Register(ctx, "ada@example.com", "Imposter", "hunter2")
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("authenticate with correct password", func(t *testing.T) {
		authenticatedID, authErr := repo.Authenticate(ctx, "ada@example.com", "correct horse battery staple")
		require.NoError(t, authErr)
		require.Equal(t, id, authenticatedID)
	})

	t.Run("authenticate with wrong password", func(t *testing.T) {
		_, authErr := repo.Authenticate(ctx, "ada@example.com", "wrong password")
		require.ErrorIs(t, authErr, ErrInvalidCredentials)
	})

	t.Run("authenticate unknown email", func(t *testing.T) {
		_, authErr := repo.Authenticate(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, authErr, ErrInvalidCredentials)
	})

	t.Run("get", func(t *testing.T) {
		user, getErr := repo.Get(ctx, id)
		require.NoError(t, getErr)
		require.Equal(t, "ada@example.com", user.Email)
		require.Equal(t, "Ada", user.Name)
		require.NotEmpty(t, user.PasswordHash)
		require.False(t, user.Created.IsZero())
	})

	t.Run("get missing", func(t *testing.T) {
		_, getErr := repo.Get(ctx, 99999)
		require.ErrorIs(t, getErr, ErrNoRecord)
	})

	t.Run("exists", func(t *testing.T) {
		exists, existsErr := repo.Exists(ctx, id)
		require.NoError(t, existsErr)
		require.True(t, exists)

		exists, existsErr = repo.Exists(ctx, 99999)
		require.NoError(t, existsErr)
		require.False(t, exists)
	})
}
