package ledger

import (
	"context"

	"github.com/cvsaves/cvsaves-api/models"
)

// Remote is the persistence contract sessions mirror themselves to. Every
// call is one remote operation that may fail; sessions never retry a failed
// write, they roll the snapshot back and report it.
type Remote interface {
	ListExpenses(ctx context.Context, userID, monthKey string) ([]models.Expense, error)
	CreateExpense(ctx context.Context, exp models.Expense) (models.Expense, error)
	UpdateExpense(ctx context.Context, id string, fields models.UpdateExpenseRequest) (models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	GetMonthlyMeta(ctx context.Context, userID, monthKey string) (models.MonthlyMeta, error)
	UpsertMonthlyMeta(ctx context.Context, userID, monthKey string, meta models.MonthlyMeta) error

	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID, name, color string) (models.Category, error)
	RenameCategory(ctx context.Context, id, name string) error
	RecolorCategory(ctx context.Context, id, color string) error
	DeleteCategory(ctx context.Context, id string) error
	BulkRenameExpenseCategory(ctx context.Context, userID, oldName, newName string) error
}
