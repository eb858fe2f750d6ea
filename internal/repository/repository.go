// Package repository persists finance records in PostgreSQL. Every lookup
// that takes a record id also takes the owner id; a record owned by someone
// else is reported as models.ErrNotFound.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// notFound translates pgx.ErrNoRows into models.ErrNotFound.
func notFound(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// where accumulates positional SQL conditions.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
