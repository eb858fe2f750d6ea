package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

var userSeq atomic.Int64

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// createTestUser inserts a user with a unique email inside db.
func createTestUser(t *testing.T, db database.Querier) *models.User {
	t.Helper()

	u := &models.User{
		Name:               "Test User",
		Email:              fmt.Sprintf("user%d-%d@example.com", time.Now().UnixNano(), userSeq.Add(1)),
		PasswordHash:       "hash",
		CurrencyPreference: models.DefaultCurrency,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
