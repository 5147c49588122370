package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/models"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// ListMonth returns the user's expenses between the first and last calendar
// day of the month key, newest first. Bounds are literal calendar dates, so
// 28/29/30/31-day months and leap years compare correctly.
func (s *ExpenseStore) ListMonth(ctx context.Context, userID, monthKey string) ([]models.Expense, error) {
	first, last, err := ledger.MonthBounds(monthKey)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, category, description, date, created_at
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC, created_at DESC
	`, userID, first, last)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// Create persists a new expense. The date is reduced to a plain calendar day
// before storage so a caller's timezone can never shift it.
func (s *ExpenseStore) Create(ctx context.Context, exp models.Expense) (models.Expense, error) {
	day, err := ledger.NormalizeDay(exp.Date)
	if err != nil {
		return models.Expense{}, err
	}
	exp.Date = day
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now().UTC()
	}

	var desc any
	if exp.Description != "" {
		desc = exp.Description
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, exp.ID, exp.UserID, exp.Amount, exp.Category, desc, exp.Date, exp.CreatedAt)
	if err != nil {
		return models.Expense{}, err
	}
	return exp, nil
}

// Update applies a partial update and returns the stored row. An included
// date goes through the same normalization as Create.
func (s *ExpenseStore) Update(ctx context.Context, id string, fields models.UpdateExpenseRequest) (models.Expense, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}
	if fields.Amount != nil {
		add("amount", *fields.Amount)
	}
	if fields.Category != nil {
		add("category", *fields.Category)
	}
	if fields.Description != nil {
		if *fields.Description == "" {
			add("description", nil)
		} else {
			add("description", *fields.Description)
		}
	}
	if fields.Date != nil {
		day, err := ledger.NormalizeDay(*fields.Date)
		if err != nil {
			return models.Expense{}, err
		}
		add("date", day)
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE expenses SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return models.Expense{}, err
		}
	}
	return s.getByID(ctx, id)
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}

// BulkRenameCategory retags every expense of the user that still carries the
// old category name. One conditional update, not a per-row loop.
func (s *ExpenseStore) BulkRenameCategory(ctx context.Context, userID, oldName, newName string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET category = $1
		WHERE user_id = $2 AND category = $3
	`, newName, userID, oldName)
	return err
}

func (s *ExpenseStore) getByID(ctx context.Context, id string) (models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, category, description, date, created_at
		FROM expenses
		WHERE id = $1
	`, id)
	return scanExpense(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(r rowScanner) (models.Expense, error) {
	var (
		exp  models.Expense
		desc sql.NullString
	)
	err := r.Scan(&exp.ID, &exp.UserID, &exp.Amount, &exp.Category, &desc, &exp.Date, &exp.CreatedAt)
	if err != nil {
		return models.Expense{}, err
	}
	exp.Description = desc.String
	return exp, nil
}
