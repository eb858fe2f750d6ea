package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

func TestExpensesCSV(t *testing.T) {
	t.Parallel()

	weekly := models.FrequencyWeekly
	recurring := expense(7, alice, models.CategoryGroceries, 42, "2024-01-06")
	recurring.IsRecurring = true
	recurring.RecurringFrequency = &weekly
	recurring.Description = "veg, fruit"

	out, err := ExpensesCSV([]models.Expense{
		expense(3, alice, models.CategoryFood, 12, "2024-01-05"),
		recurring,
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"ID", "Date", "Amount", "Category", "Description", "Recurring"}, rows[0])
	require.Equal(t, []string{"3", "2024-01-05", "12.00", "Food", "", ""}, rows[1])
	require.Equal(t, []string{"7", "2024-01-06", "42.00", "Groceries", "veg, fruit", "weekly"}, rows[2])
}

func TestExpensesCSVEmpty(t *testing.T) {
	t.Parallel()

	out, err := ExpensesCSV(nil)
	require.NoError(t, err)
	require.Equal(t, "ID,Date,Amount,Category,Description,Recurring\n", string(out))
}

func TestExpensesXLSX(t *testing.T) {
	t.Parallel()

	lunch := expense(3, alice, models.CategoryFood, 12, "2024-01-05")
	lunch.Description = "lunch"
	out, err := ExpensesXLSX([]models.Expense{lunch})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(expenseSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"ID", "Date", "Amount", "Category", "Description", "Recurring"}, rows[0])
	require.Equal(t, []string{"3", "2024-01-05", "12", "Food", "lunch"}, rows[1])
}

func TestCategoryChart(t *testing.T) {
	t.Parallel()

	t.Run("renders png", func(t *testing.T) {
		t.Parallel()
		png, err := CategoryChart(map[string]decimal.Decimal{
			"Food":  decimal.NewFromInt(75),
			"Bills": decimal.NewFromInt(100),
		}, "Expense Breakdown")
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	})

	t.Run("empty breakdown", func(t *testing.T) {
		t.Parallel()
		_, err := CategoryChart(nil, "Expense Breakdown")
		require.ErrorIs(t, err, ErrNothingToChart)
	})
}
