// Package mocks provides in-memory stores and a recording mailer for testing
// services and HTTP handlers without PostgreSQL.
package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
)

// table is an owner-scoped record set with sequential ids.
type table[T any] struct {
	mu    sync.RWMutex
	rows  []T
	next  int64
	err   error
	id    func(*T) *int64
	owner func(*T) int64
}

// FailWith makes every later call return err. Pass nil to recover.
func (t *table[T]) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Seed stores x as is, assigning an id.
func (t *table[T]) Seed(x *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	*t.id(x) = t.next
	t.rows = append(t.rows, *x)
}

// Owned returns copies of userID's records in insertion order.
func (t *table[T]) Owned(userID int64) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []T
	for i := range t.rows {
		if t.owner(&t.rows[i]) == userID {
			out = append(out, t.rows[i])
		}
	}
	return out
}

func (t *table[T]) create(x *T) error {
	if err := t.failure(); err != nil {
		return err
	}
	t.Seed(x)
	return nil
}

func (t *table[T]) failure() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

func (t *table[T]) findOne(id, userID int64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.err != nil {
		return nil, t.err
	}
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id && t.owner(&t.rows[i]) == userID {
			c := t.rows[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (t *table[T]) owned(userID int64) ([]T, error) {
	if err := t.failure(); err != nil {
		return nil, err
	}
	return t.Owned(userID), nil
}

func (t *table[T]) update(x *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	for i := range t.rows {
		if *t.id(&t.rows[i]) == *t.id(x) && t.owner(&t.rows[i]) == t.owner(x) {
			t.rows[i] = *x
			return nil
		}
	}
	return models.ErrNotFound
}

func (t *table[T]) delete(id, userID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id && t.owner(&t.rows[i]) == userID {
			t.rows = slices.Delete(t.rows, i, i+1)
			return nil
		}
	}
	return models.ErrNotFound
}

func (t *table[T]) deleteByUser(userID int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return 0, t.err
	}
	before := len(t.rows)
	t.rows = slices.DeleteFunc(t.rows, func(x T) bool { return t.owner(&x) == userID })
	return int64(before - len(t.rows)), nil
}

// ExpenseStore mimics repository.ExpenseRepository.
type ExpenseStore struct {
	table[models.Expense]
}

// NewExpenseStore creates an empty ExpenseStore.
func NewExpenseStore() *ExpenseStore {
	s := &ExpenseStore{}
	s.id = func(e *models.Expense) *int64 { return &e.ID }
	s.owner = func(e *models.Expense) int64 { return e.UserID }
	return s
}

func (s *ExpenseStore) Create(_ context.Context, e *models.Expense) error {
	return s.create(e)
}

func (s *ExpenseStore) FindOne(_ context.Context, id, userID int64) (*models.Expense, error) {
	return s.findOne(id, userID)
}

// FindMany applies the date range and category filter and sorts by date.
func (s *ExpenseStore) FindMany(_ context.Context, f repository.ExpenseFilter) ([]models.Expense, error) {
	rows, err := s.owned(f.UserID)
	if err != nil {
		return nil, err
	}
	rows = slices.DeleteFunc(rows, func(e models.Expense) bool {
		return (!f.From.IsZero() && e.Date.Before(f.From)) ||
			(!f.To.IsZero() && e.Date.After(f.To)) ||
			(f.Category != "" && e.Category != f.Category)
	})
	slices.SortStableFunc(rows, func(a, b models.Expense) int {
		if f.OldestFirst {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
	return rows, nil
}

func (s *ExpenseStore) Update(_ context.Context, e *models.Expense) error {
	return s.update(e)
}

func (s *ExpenseStore) Delete(_ context.Context, id, userID int64) error {
	return s.delete(id, userID)
}

func (s *ExpenseStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	return s.deleteByUser(userID)
}

// IncomeStore mimics repository.IncomeRepository.
type IncomeStore struct {
	table[models.Income]
}

// NewIncomeStore creates an empty IncomeStore.
func NewIncomeStore() *IncomeStore {
	s := &IncomeStore{}
	s.id = func(in *models.Income) *int64 { return &in.ID }
	s.owner = func(in *models.Income) int64 { return in.UserID }
	return s
}

func (s *IncomeStore) Create(_ context.Context, in *models.Income) error {
	return s.create(in)
}

func (s *IncomeStore) FindOne(_ context.Context, id, userID int64) (*models.Income, error) {
	return s.findOne(id, userID)
}

// FindMany applies the date range and source filter and sorts by date.
func (s *IncomeStore) FindMany(_ context.Context, f repository.IncomeFilter) ([]models.Income, error) {
	rows, err := s.owned(f.UserID)
	if err != nil {
		return nil, err
	}
	rows = slices.DeleteFunc(rows, func(in models.Income) bool {
		return (!f.From.IsZero() && in.Date.Before(f.From)) ||
			(!f.To.IsZero() && in.Date.After(f.To)) ||
			(f.Source != "" && in.Source != f.Source)
	})
	slices.SortStableFunc(rows, func(a, b models.Income) int {
		if f.OldestFirst {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
	return rows, nil
}

func (s *IncomeStore) Update(_ context.Context, in *models.Income) error {
	return s.update(in)
}

func (s *IncomeStore) Delete(_ context.Context, id, userID int64) error {
	return s.delete(id, userID)
}

func (s *IncomeStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	return s.deleteByUser(userID)
}

// BudgetStore mimics repository.BudgetRepository.
type BudgetStore struct {
	table[models.Budget]
}

// NewBudgetStore creates an empty BudgetStore.
func NewBudgetStore() *BudgetStore {
	s := &BudgetStore{}
	s.id = func(b *models.Budget) *int64 { return &b.ID }
	s.owner = func(b *models.Budget) int64 { return b.UserID }
	return s
}

func (s *BudgetStore) Create(_ context.Context, b *models.Budget) error {
	return s.create(b)
}

func (s *BudgetStore) FindOne(_ context.Context, id, userID int64) (*models.Budget, error) {
	return s.findOne(id, userID)
}

// FindMany applies category, overlap and exclusion filters.
func (s *BudgetStore) FindMany(_ context.Context, f repository.BudgetFilter) ([]models.Budget, error) {
	rows, err := s.owned(f.UserID)
	if err != nil {
		return nil, err
	}
	rows = slices.DeleteFunc(rows, func(b models.Budget) bool {
		return (f.Category != "" && b.Category != f.Category) ||
			(f.ExcludeID != 0 && b.ID == f.ExcludeID) ||
			(!f.OverlapFrom.IsZero() && !report.Overlaps(b.StartDate, b.EndDate, f.OverlapFrom, f.OverlapTo))
	})
	slices.SortStableFunc(rows, func(a, b models.Budget) int {
		if f.ByCategory {
			if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
				return c
			}
			return a.StartDate.Compare(b.StartDate)
		}
		return b.StartDate.Compare(a.StartDate)
	})
	return rows, nil
}

func (s *BudgetStore) Update(_ context.Context, b *models.Budget) error {
	return s.update(b)
}

func (s *BudgetStore) Delete(_ context.Context, id, userID int64) error {
	return s.delete(id, userID)
}

func (s *BudgetStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	return s.deleteByUser(userID)
}

// GoalStore mimics repository.GoalRepository.
type GoalStore struct {
	table[models.Goal]
}

// NewGoalStore creates an empty GoalStore.
func NewGoalStore() *GoalStore {
	s := &GoalStore{}
	s.id = func(g *models.Goal) *int64 { return &g.ID }
	s.owner = func(g *models.Goal) int64 { return g.UserID }
	return s
}

func (s *GoalStore) Create(_ context.Context, g *models.Goal) error {
	return s.create(g)
}

func (s *GoalStore) FindOne(_ context.Context, id, userID int64) (*models.Goal, error) {
	return s.findOne(id, userID)
}

// FindByUser sorts by target date, nearest first.
func (s *GoalStore) FindByUser(_ context.Context, userID int64) ([]models.Goal, error) {
	rows, err := s.owned(userID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b models.Goal) int { return a.TargetDate.Compare(b.TargetDate) })
	return rows, nil
}

func (s *GoalStore) Update(_ context.Context, g *models.Goal) error {
	return s.update(g)
}

// AddContribution adds amount and marks the goal completed at its target.
func (s *GoalStore) AddContribution(_ context.Context, id, userID int64, amount decimal.Decimal) (*models.Goal, error) {
	g, err := s.findOne(id, userID)
	if err != nil {
		return nil, err
	}
	g.SavedAmount = g.SavedAmount.Add(amount)
	g.IsCompleted = g.IsCompleted || g.SavedAmount.GreaterThanOrEqual(g.TargetAmount)
	if err := s.update(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalStore) Delete(_ context.Context, id, userID int64) error {
	return s.delete(id, userID)
}

func (s *GoalStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	return s.deleteByUser(userID)
}

// UserStore mimics repository.UserRepository, including case-insensitive
// email uniqueness.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]models.User
	next  int64
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]models.User)}
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.users {
		if other.Email == u.Email {
			return models.NewValidationError("email", "user already exists")
		}
	}
	s.next++
	u.ID = s.next
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *UserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return models.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return models.NewValidationError("email", "email is already in use")
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Store bundles one of each store.
type Store struct {
	Users    *UserStore
	Expenses *ExpenseStore
	Incomes  *IncomeStore
	Budgets  *BudgetStore
	Goals    *GoalStore
}

// NewStore creates empty stores.
func NewStore() *Store {
	return &Store{
		Users:    NewUserStore(),
		Expenses: NewExpenseStore(),
		Incomes:  NewIncomeStore(),
		Budgets:  NewBudgetStore(),
		Goals:    NewGoalStore(),
	}
}
