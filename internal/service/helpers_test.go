package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/mocks"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

var (
	_ ExpenseStore = (*mocks.ExpenseStore)(nil)
	_ IncomeStore  = (*mocks.IncomeStore)(nil)
	_ BudgetStore  = (*mocks.BudgetStore)(nil)
	_ GoalStore    = (*mocks.GoalStore)(nil)
	_ UserStore    = (*mocks.UserStore)(nil)
)

const (
	alice int64 = 1
	bob   int64 = 2
)

var (
	nop    = zerolog.Nop()
	hasher = logger.NewHasher("test")
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// decode unmarshals a JSON body the way the HTTP layer does.
func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, models.ErrValidation)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, field, ve.Field)
}
