package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/models"
)

type MetaStore struct {
	db *sql.DB
}

func NewMetaStore(db *sql.DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the income/budget figures for (user, month).
// ledger.ErrMetaNotFound when no row exists; callers treat that as zeros.
func (s *MetaStore) Get(ctx context.Context, userID, monthKey string) (models.MonthlyMeta, error) {
	var meta models.MonthlyMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT income, budget
		FROM monthly_meta
		WHERE user_id = $1 AND month = $2
	`, userID, monthKey).Scan(&meta.Income, &meta.Budget)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MonthlyMeta{}, ledger.ErrMetaNotFound
	}
	if err != nil {
		return models.MonthlyMeta{}, err
	}
	return meta, nil
}

// Upsert writes the figures for (user, month), exactly one row per pair.
func (s *MetaStore) Upsert(ctx context.Context, userID, monthKey string, meta models.MonthlyMeta) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_meta (user_id, month, income, budget)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, month)
		DO UPDATE SET income = excluded.income, budget = excluded.budget
	`, userID, monthKey, meta.Income, meta.Budget)
	return err
}
