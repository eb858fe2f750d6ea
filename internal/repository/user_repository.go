package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const userColumns = `id, name, email, password_hash, currency_preference, created_at, updated_at`

// UserRepository handles user database operations.
type UserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A duplicate email is a validation error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, currency_preference)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Name, user.Email, user.PasswordHash, user.CurrencyPreference,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("email", "user already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CurrencyPreference, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return &u, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CurrencyPreference, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "get user by email")
	}
	return &u, nil
}

// Update writes the mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.QueryRow(ctx, `
		UPDATE users SET
			name = $2,
			email = $3,
			password_hash = $4,
			currency_preference = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.CurrencyPreference).Scan(&user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("email", "email is already in use")
		}
		return notFound(err, "update user")
	}
	return nil
}

// Delete removes a user row. Owned records are removed separately.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
