package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// EXPENSE MODEL
// ============================================================================

// Expense is a single dated spending record. Category is the display name of
// a user category, stored denormalized (no id reference); the rename cascade
// keeps it in sync. Date crosses every boundary as plain YYYY-MM-DD.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Date        string          `json:"date" binding:"required"`
}

// UpdateExpenseRequest carries a partial update; nil fields are untouched.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}
