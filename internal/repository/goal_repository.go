package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const goalColumns = `id, user_id, name, target_amount, saved_amount, target_date, description, is_completed, created_at`

// GoalRepository handles goal database operations.
type GoalRepository struct {
	db database.Querier
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db database.Querier) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create adds a new goal.
func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO goals (user_id, name, target_amount, saved_amount, target_date, description, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, g.TargetDate, g.Description, g.IsCompleted,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// FindOne retrieves a goal by id and owner.
func (r *GoalRepository) FindOne(ctx context.Context, id, userID int64) (*models.Goal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	defer rows.Close()

	goals, err := scanGoals(rows)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, models.ErrNotFound
	}
	return &goals[0], nil
}

// FindByUser lists a user's goals by target date, soonest first.
func (r *GoalRepository) FindByUser(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = $1
		ORDER BY target_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// FindDueBetween lists incomplete goals of every user whose target date
// falls in [from, to].
func (r *GoalRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE is_completed = FALSE AND target_date >= $1 AND target_date <= $2
		ORDER BY user_id, target_date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due goals: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// Update overwrites an owned goal.
func (r *GoalRepository) Update(ctx context.Context, g *models.Goal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE goals SET
			name = $3,
			target_amount = $4,
			saved_amount = $5,
			target_date = $6,
			description = $7,
			is_completed = $8
		WHERE id = $1 AND user_id = $2
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, g.TargetDate, g.Description, g.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddContribution atomically adds amount to the saved total and marks the
// goal completed once the target is reached.
func (r *GoalRepository) AddContribution(ctx context.Context, id, userID int64, amount decimal.Decimal) (*models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE goals SET
			saved_amount = saved_amount + $3,
			is_completed = is_completed OR saved_amount + $3 >= target_amount
		WHERE id = $1 AND user_id = $2
		RETURNING `+goalColumns, id, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to add contribution: %w", err)
	}
	defer rows.Close()

	goals, err := scanGoals(rows)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, models.ErrNotFound
	}
	return &goals[0], nil
}

// Delete removes an owned goal.
func (r *GoalRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every goal owned by userID.
func (r *GoalRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM goals WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete goals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanGoals(rows rowScanner) ([]models.Goal, error) {
	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.TargetDate,
			&g.Description, &g.IsCompleted, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.TargetDate = g.TargetDate.UTC()
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}
