package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const budgetColumns = `id, user_id, category, amount, start_date, end_date, created_at`

// BudgetFilter selects an owner's budgets.
type BudgetFilter struct {
	UserID   int64
	Category models.Category
	// OverlapFrom and OverlapTo, when both set, keep budgets whose own
	// period shares at least one instant with [OverlapFrom, OverlapTo].
	OverlapFrom time.Time
	OverlapTo   time.Time
	// ExcludeID skips one budget, used when re-checking an update.
	ExcludeID int64
	// ByCategory orders by category then start date; the default is
	// start date descending.
	ByCategory bool
}

// BudgetRepository handles budget database operations.
type BudgetRepository struct {
	db database.Querier
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db database.Querier) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Create adds a new budget.
func (r *BudgetRepository) Create(ctx context.Context, b *models.Budget) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, amount, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, b.UserID, b.Category, b.Amount, b.StartDate, b.EndDate).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// FindOne retrieves a budget by id and owner.
func (r *BudgetRepository) FindOne(ctx context.Context, id, userID int64) (*models.Budget, error) {
	var b models.Budget
	err := r.db.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.StartDate, &b.EndDate, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err, "get budget")
	}
	b.StartDate, b.EndDate = b.StartDate.UTC(), b.EndDate.UTC()
	return &b, nil
}

// FindMany lists budgets matching f.
func (r *BudgetRepository) FindMany(ctx context.Context, f BudgetFilter) ([]models.Budget, error) {
	var w where
	w.add("user_id = ?", f.UserID)
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if !f.OverlapFrom.IsZero() && !f.OverlapTo.IsZero() {
		w.add("start_date <= ?", f.OverlapTo)
		w.add("end_date >= ?", f.OverlapFrom)
	}
	if f.ExcludeID != 0 {
		w.add("id <> ?", f.ExcludeID)
	}

	order := " ORDER BY start_date DESC, id DESC"
	if f.ByCategory {
		order = " ORDER BY category ASC, start_date ASC, id ASC"
	}

	rows, err := r.db.Query(ctx, `SELECT `+budgetColumns+` FROM budgets`+w.String()+order, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// Update overwrites an owned budget.
func (r *BudgetRepository) Update(ctx context.Context, b *models.Budget) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE budgets SET
			category = $3,
			amount = $4,
			start_date = $5,
			end_date = $6
		WHERE id = $1 AND user_id = $2
	`, b.ID, b.UserID, b.Category, b.Amount, b.StartDate, b.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an owned budget.
func (r *BudgetRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every budget owned by userID.
func (r *BudgetRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budgets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBudgets(rows rowScanner) ([]models.Budget, error) {
	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.StartDate, &b.EndDate, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.StartDate, b.EndDate = b.StartDate.UTC(), b.EndDate.UTC()
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
