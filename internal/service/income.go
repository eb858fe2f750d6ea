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

// IncomeStore persists incomes.
type IncomeStore interface {
	Create(ctx context.Context, in *models.Income) error
	FindOne(ctx context.Context, id, userID int64) (*models.Income, error)
	FindMany(ctx context.Context, f repository.IncomeFilter) ([]models.Income, error)
	Update(ctx context.Context, in *models.Income) error
	Delete(ctx context.Context, id, userID int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// IncomeInput is the body of a create request.
type IncomeInput struct {
	Amount             decimal.Decimal   `json:"amount"`
	Source             string            `json:"source" validate:"required,max=100"`
	Description        string            `json:"description" validate:"max=500"`
	Date               Date              `json:"date"`
	IsRecurring        bool              `json:"isRecurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency" validate:"omitempty,frequency"`
}

// IncomePatch is the body of an update request.
type IncomePatch struct {
	Amount             models.Optional[decimal.Decimal]  `json:"amount"`
	Source             models.Optional[string]           `json:"source"`
	Description        models.Optional[string]           `json:"description"`
	Date               models.Optional[Date]             `json:"date"`
	IsRecurring        models.Optional[bool]             `json:"isRecurring"`
	RecurringFrequency models.Optional[models.Frequency] `json:"recurringFrequency"`
}

func (in *IncomeInput) check() error {
	in.Source = strings.TrimSpace(in.Source)
	in.Description = strings.TrimSpace(in.Description)
	if err := requirePositive("amount", in.Amount); err != nil {
		return err
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	return requireDate("date", in.Date)
}

func (in IncomeInput) record(userID int64) models.Income {
	return models.Income{
		UserID:             userID,
		Amount:             in.Amount,
		Source:             in.Source,
		Description:        in.Description,
		Date:               in.Date.UTC(),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: recurrence(in.IsRecurring, in.RecurringFrequency),
	}
}

func incomeInputOf(in *models.Income) IncomeInput {
	return IncomeInput{
		Amount:             in.Amount,
		Source:             in.Source,
		Description:        in.Description,
		Date:               DateOf(in.Date),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: in.RecurringFrequency,
	}
}

func (p IncomePatch) apply(in *IncomeInput) {
	p.Amount.Apply(&in.Amount)
	p.Source.Apply(&in.Source)
	p.Description.Apply(&in.Description)
	p.Date.Apply(&in.Date)
	p.IsRecurring.Apply(&in.IsRecurring)
	applyFrequency(p.RecurringFrequency, &in.RecurringFrequency)
}

// IncomeService manages a user's incomes.
type IncomeService struct {
	store  IncomeStore
	log    zerolog.Logger
	hasher logger.Hasher
}

// NewIncomeService creates an IncomeService.
func NewIncomeService(store IncomeStore, log zerolog.Logger, hasher logger.Hasher) *IncomeService {
	return &IncomeService{
		store:  store,
		log:    log.With().Str("component", "incomes").Logger(),
		hasher: hasher,
	}
}

// Create validates in and stores it for userID.
func (s *IncomeService) Create(ctx context.Context, userID int64, in IncomeInput) (*models.Income, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	rec := in.record(userID)
	if err := s.store.Create(ctx, &rec); err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("user_hash", s.hasher.UserID(userID)).
		Int64("income_id", rec.ID).
		Msg("Income added")
	return &rec, nil
}

// List returns all of userID's incomes, newest first.
func (s *IncomeService) List(ctx context.Context, userID int64) ([]models.Income, error) {
	return s.store.FindMany(ctx, repository.IncomeFilter{UserID: userID})
}

// Get returns one of userID's incomes.
func (s *IncomeService) Get(ctx context.Context, userID, id int64) (*models.Income, error) {
	return s.store.FindOne(ctx, id, userID)
}

// Update merges p into the stored income and re-validates the result.
func (s *IncomeService) Update(ctx context.Context, userID, id int64, p IncomePatch) (*models.Income, error) {
	current, err := s.store.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in := incomeInputOf(current)
	p.apply(&in)
	if err := in.check(); err != nil {
		return nil, err
	}

	rec := in.record(userID)
	rec.ID = current.ID
	rec.CreatedAt = current.CreatedAt
	if err := s.store.Update(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes one of userID's incomes.
func (s *IncomeService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, id, userID)
}
