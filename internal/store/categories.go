package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// CategoryNameOrSlugTaken reports whether another category already holds the
// given name or slug.
func (s *Store) CategoryNameOrSlugTaken(ctx context.Context, tx *sqlx.Tx, name, slug string) (bool, error) {
	var taken bool
	err := tx.GetContext(ctx, &taken,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 OR slug = $2)",
		name, slug)
	return taken, err
}

// InsertCategory inserts a category and scans the generated id back.
func (s *Store) InsertCategory(ctx context.Context, tx *sqlx.Tx, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := tx.GetContext(ctx, &category.ID, query,
		category.Name, category.Slug, category.Description)
	if err != nil {
		return conflictOnUnique(err, "category", "name or slug already exists")
	}
	return nil
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("category", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryForUpdate loads a category inside tx with a row lock.
func (s *Store) GetCategoryForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Category, error) {
	var category models.Category
	err := tx.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("category", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories retrieves a page of categories in storage order.
func (s *Store) ListCategories(ctx context.Context, skip, limit int) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories ORDER BY id OFFSET $1 LIMIT $2", skip, limit)
	return categories, err
}

// UpdateCategory writes the mutable category fields back.
func (s *Store) UpdateCategory(ctx context.Context, tx *sqlx.Tx, category *models.Category) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		category.Name, category.Description, category.ID)
	if err != nil {
		return conflictOnUnique(err, "category", "name already exists")
	}
	return nil
}

// DeleteCategory removes a category; its products and their reviews go with
// it through the database cascade rules.
func (s *Store) DeleteCategory(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fault.Conflict("category", "products in this category are referenced by orders")
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fault.NotFound("category", id)
	}
	return nil
}
