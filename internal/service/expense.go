package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
)

// ExpenseStore persists expenses.
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	FindOne(ctx context.Context, id, userID int64) (*models.Expense, error)
	FindMany(ctx context.Context, f repository.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id, userID int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// ExpenseInput is the body of a create request.
type ExpenseInput struct {
	Amount             decimal.Decimal   `json:"amount"`
	Category           models.Category   `json:"category" validate:"required,expense_category"`
	Description        string            `json:"description" validate:"max=200"`
	Date               Date              `json:"date"`
	IsRecurring        bool              `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency" validate:"omitempty,frequency"`
}

// ExpensePatch is the body of an update request. Absent keys leave the
// stored value unchanged.
type ExpensePatch struct {
	Amount             models.Optional[decimal.Decimal]  `json:"amount"`
	Category           models.Optional[models.Category]  `json:"category"`
	Description        models.Optional[string]           `json:"description"`
	Date               models.Optional[Date]             `json:"date"`
	IsRecurring        models.Optional[bool]             `json:"isRecurring"`
	RecurringFrequency models.Optional[models.Frequency] `json:"recurringFrequency"`
}

func (in *ExpenseInput) check() error {
	in.Category = normalizeCategory(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if err := requirePositive("amount", in.Amount); err != nil {
		return err
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	return requireDate("date", in.Date)
}

func (in ExpenseInput) record(userID int64) models.Expense {
	return models.Expense{
		UserID:             userID,
		Amount:             in.Amount,
		Category:           in.Category,
		Description:        in.Description,
		Date:               in.Date.UTC(),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: recurrence(in.IsRecurring, in.RecurringFrequency),
	}
}

func expenseInputOf(e *models.Expense) ExpenseInput {
	return ExpenseInput{
		Amount:             e.Amount,
		Category:           e.Category,
		Description:        e.Description,
		Date:               DateOf(e.Date),
		IsRecurring:        e.IsRecurring,
		RecurringFrequency: e.RecurringFrequency,
	}
}

func (p ExpensePatch) apply(in *ExpenseInput) {
	p.Amount.Apply(&in.Amount)
	p.Category.Apply(&in.Category)
	p.Description.Apply(&in.Description)
	p.Date.Apply(&in.Date)
	p.IsRecurring.Apply(&in.IsRecurring)
	applyFrequency(p.RecurringFrequency, &in.RecurringFrequency)
}

// ExpenseService manages a user's expenses.
type ExpenseService struct {
	store  ExpenseStore
	log    zerolog.Logger
	hasher logger.Hasher
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store ExpenseStore, log zerolog.Logger, hasher logger.Hasher) *ExpenseService {
	return &ExpenseService{
		store:  store,
		log:    log.With().Str("component", "expenses").Logger(),
		hasher: hasher,
	}
}

// Create validates in and stores it for userID.
func (s *ExpenseService) Create(ctx context.Context, userID int64, in ExpenseInput) (*models.Expense, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	e := in.record(userID)
	if err := s.store.Create(ctx, &e); err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("user_hash", s.hasher.UserID(userID)).
		Int64("expense_id", e.ID).
		Str("category", string(e.Category)).
		Str("description", logger.RedactNote(e.Description)).
		Msg("Expense added")
	return &e, nil
}

// List returns all of userID's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, userID int64) ([]models.Expense, error) {
	return s.store.FindMany(ctx, repository.ExpenseFilter{UserID: userID})
}

// Get returns one of userID's expenses.
func (s *ExpenseService) Get(ctx context.Context, userID, id int64) (*models.Expense, error) {
	return s.store.FindOne(ctx, id, userID)
}

// Update merges p into the stored expense and re-validates the result.
func (s *ExpenseService) Update(ctx context.Context, userID, id int64, p ExpensePatch) (*models.Expense, error) {
	current, err := s.store.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in := expenseInputOf(current)
	p.apply(&in)
	if err := in.check(); err != nil {
		return nil, err
	}

	e := in.record(userID)
	e.ID = current.ID
	e.CreatedAt = current.CreatedAt
	if err := s.store.Update(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes one of userID's expenses.
func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, id, userID)
}
