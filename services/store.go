package services

import (
	"context"
	"database/sql"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/models"
	"github.com/cvsaves/cvsaves-api/utils"
)

// Store bundles the per-table stores behind the ledger's remote contract.
type Store struct {
	DB         *sql.DB
	Expenses   *ExpenseStore
	Categories *CategoryStore
	Meta       *MetaStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:         db,
		Expenses:   NewExpenseStore(db),
		Categories: NewCategoryStore(db),
		Meta:       NewMetaStore(db),
	}
}

var _ ledger.Remote = (*Store)(nil)

func (s *Store) ListExpenses(ctx context.Context, userID, monthKey string) ([]models.Expense, error) {
	return s.Expenses.ListMonth(ctx, userID, monthKey)
}

func (s *Store) CreateExpense(ctx context.Context, exp models.Expense) (models.Expense, error) {
	return s.Expenses.Create(ctx, exp)
}

func (s *Store) UpdateExpense(ctx context.Context, id string, fields models.UpdateExpenseRequest) (models.Expense, error) {
	return s.Expenses.Update(ctx, id, fields)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.Expenses.Delete(ctx, id)
}

func (s *Store) GetMonthlyMeta(ctx context.Context, userID, monthKey string) (models.MonthlyMeta, error) {
	return s.Meta.Get(ctx, userID, monthKey)
}

func (s *Store) UpsertMonthlyMeta(ctx context.Context, userID, monthKey string, meta models.MonthlyMeta) error {
	return s.Meta.Upsert(ctx, userID, monthKey, meta)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return s.Categories.List(ctx, userID)
}

func (s *Store) CreateCategory(ctx context.Context, userID, name, color string) (models.Category, error) {
	return s.Categories.Create(ctx, userID, name, color)
}

func (s *Store) RenameCategory(ctx context.Context, id, name string) error {
	return s.Categories.Rename(ctx, id, name)
}

func (s *Store) RecolorCategory(ctx context.Context, id, color string) error {
	return s.Categories.Recolor(ctx, id, color)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.Categories.Delete(ctx, id)
}

func (s *Store) BulkRenameExpenseCategory(ctx context.Context, userID, oldName, newName string) error {
	return s.Expenses.BulkRenameCategory(ctx, userID, oldName, newName)
}

// ----------------------------------------------------------------------------
// Bulk clears (data tools)
// ----------------------------------------------------------------------------

// ClearMonth wipes one month's expenses and its meta row in a single
// transaction.
func (s *Store) ClearMonth(ctx context.Context, userID, monthKey string) error {
	first, last, err := ledger.MonthBounds(monthKey)
	if err != nil {
		return err
	}
	return utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM expenses WHERE user_id = $1 AND date >= $2 AND date <= $3
		`, userID, first, last); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			DELETE FROM monthly_meta WHERE user_id = $1 AND month = $2
		`, userID, monthKey)
		return err
	})
}

// ClearAll wipes every expense and meta row the user owns. Categories stay.
func (s *Store) ClearAll(ctx context.Context, userID string) error {
	return utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM monthly_meta WHERE user_id = $1`, userID)
		return err
	})
}
