package report

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
)

// memStore applies repository filters to in-memory records.
type memStore struct {
	expenses []models.Expense
	incomes  []models.Income
	budgets  []models.Budget
	err      error
}

func (s *memStore) Expenses() ExpenseStore { return expenseView{s} }
func (s *memStore) Incomes() IncomeStore   { return incomeView{s} }
func (s *memStore) Budgets() BudgetStore   { return budgetView{s} }

type expenseView struct{ s *memStore }

func (v expenseView) FindMany(_ context.Context, f repository.ExpenseFilter) ([]models.Expense, error) {
	if v.s.err != nil {
		return nil, v.s.err
	}
	var out []models.Expense
	for _, x := range v.s.expenses {
		if x.UserID != f.UserID ||
			(!f.From.IsZero() && x.Date.Before(f.From)) ||
			(!f.To.IsZero() && x.Date.After(f.To)) ||
			(f.Category != "" && x.Category != f.Category) {
			continue
		}
		out = append(out, x)
	}
	slices.SortStableFunc(out, func(a, b models.Expense) int {
		if f.OldestFirst {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

type incomeView struct{ s *memStore }

func (v incomeView) FindMany(_ context.Context, f repository.IncomeFilter) ([]models.Income, error) {
	if v.s.err != nil {
		return nil, v.s.err
	}
	var out []models.Income
	for _, x := range v.s.incomes {
		if x.UserID != f.UserID ||
			(!f.From.IsZero() && x.Date.Before(f.From)) ||
			(!f.To.IsZero() && x.Date.After(f.To)) ||
			(f.Source != "" && x.Source != f.Source) {
			continue
		}
		out = append(out, x)
	}
	slices.SortStableFunc(out, func(a, b models.Income) int { return a.Date.Compare(b.Date) })
	return out, nil
}

type budgetView struct{ s *memStore }

func (v budgetView) FindMany(_ context.Context, f repository.BudgetFilter) ([]models.Budget, error) {
	if v.s.err != nil {
		return nil, v.s.err
	}
	var out []models.Budget
	for _, b := range v.s.budgets {
		if b.UserID != f.UserID ||
			(f.Category != "" && b.Category != f.Category) ||
			(f.ExcludeID != 0 && b.ID == f.ExcludeID) {
			continue
		}
		if !f.OverlapFrom.IsZero() && !Overlaps(b.StartDate, b.EndDate, f.OverlapFrom, f.OverlapTo) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

var errStore = errors.New("store unavailable")

const (
	alice int64 = 1
	bob   int64 = 2
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func expense(id, user int64, cat models.Category, amount int64, date string) models.Expense {
	return models.Expense{ID: id, UserID: user, Category: cat, Amount: amt(amount), Date: day(date)}
}

func income(id, user int64, source string, amount int64, date string) models.Income {
	return models.Income{ID: id, UserID: user, Source: source, Amount: amt(amount), Date: day(date)}
}

func budget(id, user int64, cat models.Category, amount int64, start, end string) models.Budget {
	return models.Budget{ID: id, UserID: user, Category: cat, Amount: amt(amount), StartDate: day(start), EndDate: day(end)}
}

func newTestEngine(s *memStore) *Engine {
	return NewEngine(s.Expenses(), s.Incomes(), s.Budgets(), nil)
}

func mustRange(start, end string) Range {
	r, err := NormalizeRange(start, end, time.Now())
	if err != nil {
		panic(err)
	}
	return r
}
