package models

import "github.com/shopspring/decimal"

// ============================================================================
// MONTHLY META MODEL
// ============================================================================

// MonthlyMeta holds the income and budget figures for one (user, month) pair.
// An absent row means income=0, budget=0; that default never reaches the user
// as an error.
type MonthlyMeta struct {
	Income decimal.Decimal `json:"income"`
	Budget decimal.Decimal `json:"budget"`
}

type UpsertMetaRequest struct {
	Income decimal.Decimal `json:"income"`
	Budget decimal.Decimal `json:"budget"`
}
