package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

func TestIncomeRepository(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	repo := NewIncomeRepository(tx)
	ctx := context.Background()

	owner := createTestUser(t, tx)

	salary := &models.Income{UserID: owner.ID, Amount: decimal.NewFromInt(5000), Source: "Salary", Date: day("2024-01-31")}
	gig := &models.Income{UserID: owner.ID, Amount: decimal.NewFromInt(300), Source: "Freelance", Date: day("2024-01-15")}
	require.NoError(t, repo.Create(ctx, salary))
	require.NoError(t, repo.Create(ctx, gig))

	t.Run("filters by source", func(t *testing.T) {
		got, err := repo.FindMany(ctx, IncomeFilter{UserID: owner.ID, Source: "Salary"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, salary.ID, got[0].ID)
	})

	t.Run("orders by date", func(t *testing.T) {
		got, err := repo.FindMany(ctx, IncomeFilter{UserID: owner.ID, OldestFirst: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, gig.ID, got[0].ID)
	})

	t.Run("updates and deletes", func(t *testing.T) {
		gig.Amount = decimal.NewFromInt(350)
		require.NoError(t, repo.Update(ctx, gig))
		got, err := repo.FindOne(ctx, gig.ID, owner.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(350).Equal(got.Amount))

		require.NoError(t, repo.Delete(ctx, gig.ID, owner.ID))
		_, err = repo.FindOne(ctx, gig.ID, owner.ID)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("delete by user", func(t *testing.T) {
		n, err := repo.DeleteByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}
