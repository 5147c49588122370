package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/models"
	"github.com/cvsaves/cvsaves-api/utils"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns the user's categories ordered by name.
func (s *CategoryStore) List(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, color
		FROM user_categories
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// EnsureDefaults seeds the fixed default set when the user has no categories
// yet, reporting whether it did so caller-held snapshots can be refreshed.
// Check-then-insert without a cross-call transaction: two concurrent first
// loads can double-seed. Known limitation.
func (s *CategoryStore) EnsureDefaults(ctx context.Context, userID string) (bool, error) {
	count, err := s.Count(ctx, userID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		for _, c := range models.DefaultCategories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO user_categories (id, user_id, name, color)
				VALUES ($1, $2, $3, $4)
			`, uuid.NewString(), userID, c.Name, c.Color)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new category. An empty name after trimming is rejected
// before the write.
func (s *CategoryStore) Create(ctx context.Context, userID, name, color string) (models.Category, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return models.Category{}, &ledger.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	cat := models.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   clean,
		Color:  color,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_categories (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
	`, cat.ID, cat.UserID, cat.Name, cat.Color)
	if err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// Rename updates the display name only. Cascading the change to expense
// records is a separate, higher-level operation.
func (s *CategoryStore) Rename(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE user_categories SET name = $1 WHERE id = $2`, name, id)
	return err
}

func (s *CategoryStore) Recolor(ctx context.Context, id, color string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE user_categories SET color = $1 WHERE id = $2`, color, id)
	return err
}

// Delete removes the category record only. Expenses keep the old name and
// show up with the fallback color; nothing is reassigned.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_categories WHERE id = $1`, id)
	return err
}

func (s *CategoryStore) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_categories WHERE user_id = $1
	`, userID).Scan(&count)
	return count, err
}
