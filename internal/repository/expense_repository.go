package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const expenseColumns = `id, user_id, amount, category, description, date, is_recurring, recurring_frequency, created_at`

// ExpenseFilter selects an owner's expenses. Zero-valued fields do not filter.
type ExpenseFilter struct {
	UserID   int64
	From     time.Time // inclusive
	To       time.Time // inclusive
	Category models.Category
	// OldestFirst orders by date ascending; the default is newest first.
	OldestFirst bool
}

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.Querier
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.Querier) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create adds a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, amount, category, description, date, is_recurring, recurring_frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, e.UserID, e.Amount, e.Category, e.Description, e.Date, e.IsRecurring, e.RecurringFrequency,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// FindOne retrieves an expense by id and owner.
func (r *ExpenseRepository) FindOne(ctx context.Context, id, userID int64) (*models.Expense, error) {
	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, models.ErrNotFound
	}
	return &expenses[0], nil
}

// FindMany lists expenses matching f, newest first unless f.OldestFirst.
func (r *ExpenseRepository) FindMany(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	var w where
	w.add("user_id = ?", f.UserID)
	if !f.From.IsZero() {
		w.add("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("date <= ?", f.To)
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}

	order := " ORDER BY date DESC, created_at DESC, id DESC"
	if f.OldestFirst {
		order = " ORDER BY date ASC, created_at ASC, id ASC"
	}

	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+w.String()+order, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// Update overwrites an owned expense.
func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET
			amount = $3,
			category = $4,
			description = $5,
			date = $6,
			is_recurring = $7,
			recurring_frequency = $8
		WHERE id = $1 AND user_id = $2
	`, e.ID, e.UserID, e.Amount, e.Category, e.Description, e.Date, e.IsRecurring, e.RecurringFrequency)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an owned expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every expense owned by userID and returns the count.
func (r *ExpenseRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expenses: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanExpenses(rows rowScanner) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date,
			&e.IsRecurring, &e.RecurringFrequency, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date = e.Date.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
