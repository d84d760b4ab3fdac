package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/model"
)

// DefaultCategories is the whitelist installed by SeedDefaultCategories.
var DefaultCategories = []model.Category{
	{Name: "餐饮", Icon: "🍜", Type: model.CategoryTypeExpense},
	{Name: "交通", Icon: "🚇", Type: model.CategoryTypeExpense},
	{Name: "购物", Icon: "🛍", Type: model.CategoryTypeExpense},
	{Name: "娱乐", Icon: "🎮", Type: model.CategoryTypeExpense},
	{Name: "居住", Icon: "🏠", Type: model.CategoryTypeExpense},
	{Name: "医疗", Icon: "💊", Type: model.CategoryTypeExpense},
	{Name: "通讯", Icon: "📱", Type: model.CategoryTypeExpense},
	{Name: "红包", Icon: "🧧", Type: model.CategoryTypeIncome},
	{Name: "转账", Icon: "💸", Type: model.CategoryTypeIncome},
	{Name: "工资", Icon: "💰", Type: model.CategoryTypeIncome},
	{Name: "其他", Icon: "📦", Type: model.CategoryTypeExpense},
}

// Categories returns all active categories in creation order.
func (s *SQLiteStore) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, type, is_active, created_at
		FROM categories
		WHERE is_active = 1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var catType string
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &catType, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Type = model.CategoryType(catType)
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// CategoryByName returns a category, active or not, by its exact name.
func (s *SQLiteStore) CategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, type, is_active, created_at
		FROM categories
		WHERE name = ?`

	var cat model.Category
	var catType string
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Icon, &catType, &cat.IsActive, &cat.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	cat.Type = model.CategoryType(catType)

	return &cat, nil
}

// CreateCategory adds a category to the whitelist. An inactive category of the
// same name is reactivated with the new icon and type. An active one yields
// common.ErrDuplicateEntry.
func (s *SQLiteStore) CreateCategory(ctx context.Context, name, icon string, catType model.CategoryType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if catType == "" {
		catType = model.CategoryTypeExpense
	}
	if err := validateCategoryType(catType); err != nil {
		return nil, err
	}

	existing, err := s.CategoryByName(ctx, name)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, name)
		}
		updateQuery := `UPDATE categories SET is_active = 1, icon = ?, type = ? WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, updateQuery, icon, string(catType), existing.ID); err != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", err)
		}
		existing.IsActive = true
		existing.Icon = icon
		existing.Type = catType
		slog.Info("reactivated existing category", "name", name)
		return existing, nil
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	insertQuery := `
		INSERT INTO categories (name, icon, type, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, insertQuery, name, icon, string(catType), now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "name", name, "type", catType)

	return &model.Category{
		ID:        int(id),
		Name:      name,
		Icon:      icon,
		Type:      catType,
		CreatedAt: now,
		IsActive:  true,
	}, nil
}

// DeactivateCategory removes a category from the whitelist without deleting
// it, so transactions that reference it keep their meaning.
func (s *SQLiteStore) DeactivateCategory(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE name = ? AND is_active = 1`, name)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("active category %q: %w", name, common.ErrNotFound)
	}

	slog.Info("deactivated category", "name", name)
	return nil
}

// SeedDefaultCategories inserts any DefaultCategories not already present,
// active or not, and returns how many were added.
func (s *SQLiteStore) SeedDefaultCategories(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO categories (name, icon, type, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	added := 0
	for _, cat := range DefaultCategories {
		result, err := stmt.ExecContext(ctx, cat.Name, cat.Icon, string(cat.Type), now)
		if err != nil {
			return 0, fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.Info("seeded default categories", "added", added)
	return added, nil
}
