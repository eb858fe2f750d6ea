package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const incomeColumns = `id, user_id, amount, source, description, date, is_recurring, recurring_frequency, created_at`

// IncomeFilter selects an owner's incomes. Zero-valued fields do not filter.
type IncomeFilter struct {
	UserID      int64
	From        time.Time
	To          time.Time
	Source      string
	OldestFirst bool
}

// IncomeRepository handles income database operations.
type IncomeRepository struct {
	db database.Querier
}

// NewIncomeRepository creates a new IncomeRepository.
func NewIncomeRepository(db database.Querier) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// Create adds a new income.
func (r *IncomeRepository) Create(ctx context.Context, in *models.Income) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO incomes (user_id, amount, source, description, date, is_recurring, recurring_frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, in.UserID, in.Amount, in.Source, in.Description, in.Date, in.IsRecurring, in.RecurringFrequency,
	).Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// FindOne retrieves an income by id and owner.
func (r *IncomeRepository) FindOne(ctx context.Context, id, userID int64) (*models.Income, error) {
	rows, err := r.db.Query(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	defer rows.Close()

	incomes, err := scanIncomes(rows)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, models.ErrNotFound
	}
	return &incomes[0], nil
}

// FindMany lists incomes matching f. Source matches exactly.
func (r *IncomeRepository) FindMany(ctx context.Context, f IncomeFilter) ([]models.Income, error) {
	var w where
	w.add("user_id = ?", f.UserID)
	if !f.From.IsZero() {
		w.add("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("date <= ?", f.To)
	}
	if f.Source != "" {
		w.add("source = ?", f.Source)
	}

	order := " ORDER BY date DESC, created_at DESC, id DESC"
	if f.OldestFirst {
		order = " ORDER BY date ASC, created_at ASC, id ASC"
	}

	rows, err := r.db.Query(ctx, `SELECT `+incomeColumns+` FROM incomes`+w.String()+order, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	return scanIncomes(rows)
}

// Update overwrites an owned income.
func (r *IncomeRepository) Update(ctx context.Context, in *models.Income) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE incomes SET
			amount = $3,
			source = $4,
			description = $5,
			date = $6,
			is_recurring = $7,
			recurring_frequency = $8
		WHERE id = $1 AND user_id = $2
	`, in.ID, in.UserID, in.Amount, in.Source, in.Description, in.Date, in.IsRecurring, in.RecurringFrequency)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an owned income.
func (r *IncomeRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every income owned by userID.
func (r *IncomeRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM incomes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete incomes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanIncomes(rows rowScanner) ([]models.Income, error) {
	incomes := []models.Income{}
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(
			&in.ID, &in.UserID, &in.Amount, &in.Source, &in.Description, &in.Date,
			&in.IsRecurring, &in.RecurringFrequency, &in.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		in.Date = in.Date.UTC()
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}
	return incomes, nil
}
