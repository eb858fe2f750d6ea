package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

// GoalStore persists goals.
type GoalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	FindOne(ctx context.Context, id, userID int64) (*models.Goal, error)
	FindByUser(ctx context.Context, userID int64) ([]models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	AddContribution(ctx context.Context, id, userID int64, amount decimal.Decimal) (*models.Goal, error)
	Delete(ctx context.Context, id, userID int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// GoalInput is the body of a create request.
type GoalInput struct {
	Name         string          `json:"name" validate:"required,max=100"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	TargetDate   Date            `json:"targetDate"`
	Description  string          `json:"description" validate:"max=500"`
	IsCompleted  bool            `json:"isCompleted"`
}

// GoalPatch is the body of an update request.
type GoalPatch struct {
	Name         models.Optional[string]          `json:"name"`
	TargetAmount models.Optional[decimal.Decimal] `json:"targetAmount"`
	SavedAmount  models.Optional[decimal.Decimal] `json:"savedAmount"`
	TargetDate   models.Optional[Date]            `json:"targetDate"`
	Description  models.Optional[string]          `json:"description"`
	IsCompleted  models.Optional[bool]            `json:"isCompleted"`
}

// ContributionInput is the body of a contribution request.
type ContributionInput struct {
	Amount decimal.Decimal `json:"amount"`
}

func (in *GoalInput) check() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := requirePositive("targetAmount", in.TargetAmount); err != nil {
		return err
	}
	if in.SavedAmount.IsNegative() {
		return models.NewValidationError("savedAmount", "cannot be negative")
	}
	return requireDate("targetDate", in.TargetDate)
}

func requireFuture(d Date, now time.Time) error {
	if !d.After(now) {
		return models.NewValidationError("targetDate", "target date (%s) must be in the future", d.Format(time.DateOnly))
	}
	return nil
}

// record marks the goal completed once the saved amount reaches the target.
func (in GoalInput) record(userID int64) models.Goal {
	return models.Goal{
		UserID:       userID,
		Name:         in.Name,
		TargetAmount: in.TargetAmount,
		SavedAmount:  in.SavedAmount,
		TargetDate:   in.TargetDate.UTC(),
		Description:  in.Description,
		IsCompleted:  in.IsCompleted || in.reached(),
	}
}

func (in GoalInput) reached() bool {
	return in.SavedAmount.GreaterThanOrEqual(in.TargetAmount)
}

func goalInputOf(g *models.Goal) GoalInput {
	return GoalInput{
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		SavedAmount:  g.SavedAmount,
		TargetDate:   DateOf(g.TargetDate),
		Description:  g.Description,
		IsCompleted:  g.IsCompleted,
	}
}

func (p GoalPatch) apply(in *GoalInput) {
	p.Name.Apply(&in.Name)
	p.TargetAmount.Apply(&in.TargetAmount)
	p.SavedAmount.Apply(&in.SavedAmount)
	p.TargetDate.Apply(&in.TargetDate)
	p.Description.Apply(&in.Description)
	p.IsCompleted.Apply(&in.IsCompleted)
}

// GoalService manages a user's savings goals.
type GoalService struct {
	store  GoalStore
	log    zerolog.Logger
	hasher logger.Hasher
	now    func() time.Time
}

// NewGoalService creates a GoalService.
func NewGoalService(store GoalStore, log zerolog.Logger, hasher logger.Hasher) *GoalService {
	return &GoalService{
		store:  store,
		log:    log.With().Str("component", "goals").Logger(),
		hasher: hasher,
		now:    time.Now,
	}
}

// Create validates in and stores it for userID. The target date must lie
// in the future.
func (s *GoalService) Create(ctx context.Context, userID int64, in GoalInput) (*models.Goal, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if err := requireFuture(in.TargetDate, s.now()); err != nil {
		return nil, err
	}
	g := in.record(userID)
	if err := s.store.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns userID's goals, nearest deadline first.
func (s *GoalService) List(ctx context.Context, userID int64) ([]models.Goal, error) {
	return s.store.FindByUser(ctx, userID)
}

// Get returns one of userID's goals.
func (s *GoalService) Get(ctx context.Context, userID, id int64) (*models.Goal, error) {
	return s.store.FindOne(ctx, id, userID)
}

// Update merges p into the stored goal. A new target date must lie in the
// future; an unchanged one may already have passed. An isCompleted value sent
// by the caller is stored as given; otherwise completion follows the amounts.
func (s *GoalService) Update(ctx context.Context, userID, id int64, p GoalPatch) (*models.Goal, error) {
	current, err := s.store.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in := goalInputOf(current)
	p.apply(&in)
	if err := in.check(); err != nil {
		return nil, err
	}
	if !in.TargetDate.Equal(current.TargetDate) {
		if err := requireFuture(in.TargetDate, s.now()); err != nil {
			return nil, err
		}
	}

	g := in.record(userID)
	if p.IsCompleted.Present() {
		g.IsCompleted = in.IsCompleted
	}
	g.ID = current.ID
	g.CreatedAt = current.CreatedAt
	if err := s.store.Update(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Contribute adds a positive amount to the goal's saved total.
func (s *GoalService) Contribute(ctx context.Context, userID, id int64, in ContributionInput) (*models.Goal, error) {
	if err := requirePositive("amount", in.Amount); err != nil {
		return nil, err
	}
	g, err := s.store.AddContribution(ctx, id, userID, in.Amount)
	if err != nil {
		return nil, err
	}
	if g.IsCompleted {
		s.log.Info().Str("user_hash", s.hasher.UserID(userID)).Int64("goal_id", g.ID).Msg("Goal reached")
	}
	return g, nil
}

// Delete removes one of userID's goals.
func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, id, userID)
}
