package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
)

// BudgetStore persists budgets.
type BudgetStore interface {
	Create(ctx context.Context, b *models.Budget) error
	FindOne(ctx context.Context, id, userID int64) (*models.Budget, error)
	FindMany(ctx context.Context, f repository.BudgetFilter) ([]models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, id, userID int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// ConflictChecker rejects a budget that overlaps another of the same owner
// and category.
type ConflictChecker interface {
	CheckBudgetConflict(ctx context.Context, b models.Budget) error
}

// BudgetInput is the body of a create request.
type BudgetInput struct {
	Category  models.Category `json:"category" validate:"required,budget_category"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate Date            `json:"startDate"`
	EndDate   Date            `json:"endDate"`
}

// BudgetPatch is the body of an update request.
type BudgetPatch struct {
	Category  models.Optional[models.Category] `json:"category"`
	Amount    models.Optional[decimal.Decimal] `json:"amount"`
	StartDate models.Optional[Date]            `json:"startDate"`
	EndDate   models.Optional[Date]            `json:"endDate"`
}

// check validates in and normalizes its period to whole days: the start
// at midnight and the end at the last millisecond of its day, both UTC.
func (in *BudgetInput) check() error {
	in.Category = normalizeCategory(in.Category)
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := requirePositive("amount", in.Amount); err != nil {
		return err
	}
	if err := requireDate("startDate", in.StartDate); err != nil {
		return err
	}
	if err := requireDate("endDate", in.EndDate); err != nil {
		return err
	}

	start := in.StartDate.UTC()
	in.StartDate = DateOf(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC))
	in.EndDate = DateOf(report.EndOfDay(in.EndDate.Time))
	if in.EndDate.Before(in.StartDate.Time) {
		return models.NewValidationError("endDate", "end date cannot be before start date")
	}
	return nil
}

func (in BudgetInput) record(userID int64) models.Budget {
	return models.Budget{
		UserID:    userID,
		Category:  in.Category,
		Amount:    in.Amount,
		StartDate: in.StartDate.Time,
		EndDate:   in.EndDate.Time,
	}
}

func budgetInputOf(b *models.Budget) BudgetInput {
	return BudgetInput{
		Category:  b.Category,
		Amount:    b.Amount,
		StartDate: DateOf(b.StartDate),
		EndDate:   DateOf(b.EndDate),
	}
}

func (p BudgetPatch) apply(in *BudgetInput) {
	p.Category.Apply(&in.Category)
	p.Amount.Apply(&in.Amount)
	p.StartDate.Apply(&in.StartDate)
	p.EndDate.Apply(&in.EndDate)
}

// BudgetService manages a user's budgets.
type BudgetService struct {
	store     BudgetStore
	conflicts ConflictChecker
	log       zerolog.Logger
	hasher    logger.Hasher
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(store BudgetStore, conflicts ConflictChecker, log zerolog.Logger, hasher logger.Hasher) *BudgetService {
	return &BudgetService{
		store:     store,
		conflicts: conflicts,
		log:       log.With().Str("component", "budgets").Logger(),
		hasher:    hasher,
	}
}

// Create validates in, rejects it when it overlaps an existing budget of
// the same category, and stores it.
func (s *BudgetService) Create(ctx context.Context, userID int64, in BudgetInput) (*models.Budget, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	b := in.record(userID)
	if err := s.conflicts.CheckBudgetConflict(ctx, b); err != nil {
		s.log.Debug().Err(err).Str("user_hash", s.hasher.UserID(userID)).Msg("Budget rejected")
		return nil, err
	}
	if err := s.store.Create(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all of userID's budgets, latest period first.
func (s *BudgetService) List(ctx context.Context, userID int64) ([]models.Budget, error) {
	return s.store.FindMany(ctx, repository.BudgetFilter{UserID: userID})
}

// Get returns one of userID's budgets.
func (s *BudgetService) Get(ctx context.Context, userID, id int64) (*models.Budget, error) {
	return s.store.FindOne(ctx, id, userID)
}

// Update merges p into the stored budget. A changed category or period is
// checked for overlap again, ignoring the budget itself.
func (s *BudgetService) Update(ctx context.Context, userID, id int64, p BudgetPatch) (*models.Budget, error) {
	current, err := s.store.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in := budgetInputOf(current)
	p.apply(&in)
	if err := in.check(); err != nil {
		return nil, err
	}

	b := in.record(userID)
	b.ID = current.ID
	b.CreatedAt = current.CreatedAt

	moved := b.Category != current.Category ||
		!b.StartDate.Equal(current.StartDate) ||
		!b.EndDate.Equal(current.EndDate)
	if moved {
		if err := s.conflicts.CheckBudgetConflict(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes one of userID's budgets.
func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, id, userID)
}
