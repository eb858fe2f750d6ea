package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

func TestBudgetRepository(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	repo := NewBudgetRepository(tx)
	ctx := context.Background()

	owner := createTestUser(t, tx)

	jan := &models.Budget{UserID: owner.ID, Category: models.CategoryFood, Amount: decimal.NewFromInt(200),
		StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	mar := &models.Budget{UserID: owner.ID, Category: models.CategoryTravel, Amount: decimal.NewFromInt(500),
		StartDate: day("2024-03-01"), EndDate: day("2024-03-31")}
	require.NoError(t, repo.Create(ctx, jan))
	require.NoError(t, repo.Create(ctx, mar))

	t.Run("lists by start date descending", func(t *testing.T) {
		got, err := repo.FindMany(ctx, BudgetFilter{UserID: owner.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, mar.ID, got[0].ID)
	})

	t.Run("overlap selection includes boundary touch", func(t *testing.T) {
		got, err := repo.FindMany(ctx, BudgetFilter{
			UserID:      owner.ID,
			OverlapFrom: day("2024-01-31"),
			OverlapTo:   day("2024-02-15"),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, jan.ID, got[0].ID)
	})

	t.Run("category and exclusion narrow the result", func(t *testing.T) {
		got, err := repo.FindMany(ctx, BudgetFilter{UserID: owner.ID, Category: models.CategoryFood, ExcludeID: jan.ID})
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("update is owner scoped", func(t *testing.T) {
		b := *jan
		b.Amount = decimal.NewFromInt(250)
		require.NoError(t, repo.Update(ctx, &b))

		got, err := repo.FindOne(ctx, jan.ID, owner.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(250).Equal(got.Amount))

		b.UserID = owner.ID + 1_000_000
		require.ErrorIs(t, repo.Update(ctx, &b), models.ErrNotFound)
	})

	t.Run("delete by user", func(t *testing.T) {
		n, err := repo.DeleteByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.EqualValues(t, 2, n)
	})
}
