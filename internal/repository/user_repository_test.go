package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

func TestUserRepository(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	repo := NewUserRepository(tx)
	ctx := context.Background()

	user := &models.User{
		Name:               "Asha",
		Email:              "  Asha@Example.COM ",
		PasswordHash:       "hash",
		CurrencyPreference: "INR",
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)
	require.Equal(t, "asha@example.com", user.Email)

	t.Run("gets by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "Asha", got.Name)
		require.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("gets by email ignoring case", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ASHA@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("updates profile", func(t *testing.T) {
		user.Name = "Asha R"
		user.CurrencyPreference = "USD"
		require.NoError(t, repo.Update(ctx, user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "Asha R", got.Name)
		require.Equal(t, "USD", got.CurrencyPreference)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, -1)
		require.ErrorIs(t, err, models.ErrNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, models.ErrNotFound)

		require.ErrorIs(t, repo.Delete(ctx, -1), models.ErrNotFound)
	})

	t.Run("deletes user", func(t *testing.T) {
		other := createTestUser(t, tx)
		require.NoError(t, repo.Delete(ctx, other.ID))
		_, err := repo.GetByID(ctx, other.ID)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	// A unique violation aborts the surrounding transaction, so this runs last.
	t.Run("rejects duplicate email", func(t *testing.T) {
		dup := &models.User{Name: "Other", Email: "asha@example.com", PasswordHash: "x", CurrencyPreference: "INR"}
		err := repo.Create(ctx, dup)
		require.ErrorIs(t, err, models.ErrValidation)
		require.ErrorContains(t, err, "user already exists")
	})
}
