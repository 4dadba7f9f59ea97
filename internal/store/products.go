package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// ProductSlugTaken reports whether another product already holds the slug.
func (s *Store) ProductSlugTaken(ctx context.Context, tx *sqlx.Tx, slug string) (bool, error) {
	var taken bool
	err := tx.GetContext(ctx, &taken,
		"SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)", slug)
	return taken, err
}

// InsertProduct inserts a product and scans the generated columns back.
func (s *Store) InsertProduct(ctx context.Context, tx *sqlx.Tx, product *models.Product) error {
	query := `
		INSERT INTO products (name, slug, description, price, discount_price, stock, is_active, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := tx.QueryRowxContext(ctx, query,
		product.Name, product.Slug, product.Description,
		product.Price, product.DiscountPrice, product.Stock,
		product.IsActive, product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return conflictOnUnique(err, "product", "slug already exists")
	}
	return nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductForUpdate loads a product inside tx with a row lock.
func (s *Store) GetProductForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Product, error) {
	var product models.Product
	err := tx.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsWithCategory retrieves a page of products joined with their
// categories, in storage order.
func (s *Store) ListProductsWithCategory(ctx context.Context, skip, limit int) ([]models.ProductWithCategory, error) {
	query := `
		SELECT p.*,
		       c.id "category.id", c.name "category.name",
		       c.slug "category.slug", c.description "category.description"
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.id
		OFFSET $1 LIMIT $2`

	rows := []models.ProductWithCategory{}
	err := s.db.SelectContext(ctx, &rows, query, skip, limit)
	return rows, err
}

// GetProductsByIDs retrieves multiple products by IDs inside tx.
func (s *Store) GetProductsByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	products := []models.Product{}
	err = tx.SelectContext(ctx, &products, query, args...)
	return products, err
}

// UpdateProduct writes the mutable product fields back and refreshes
// updated_at.
func (s *Store) UpdateProduct(ctx context.Context, tx *sqlx.Tx, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, discount_price = $4,
		    stock = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	return tx.GetContext(ctx, &product.UpdatedAt, query,
		product.Name, product.Description, product.Price, product.DiscountPrice,
		product.Stock, product.IsActive, product.ID)
}

// DeleteProduct removes a product; its reviews go with it through the
// cascade rule. Products referenced by order items cannot be deleted.
func (s *Store) DeleteProduct(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fault.Conflict("product", "product is referenced by existing orders")
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fault.NotFound("product", id)
	}
	return nil
}

// ListProductIDsByCategory returns the ids of every product in a category,
// used to drop cache entries before a cascading category delete.
func (s *Store) ListProductIDsByCategory(ctx context.Context, tx *sqlx.Tx, categoryID int64) ([]int64, error) {
	ids := []int64{}
	err := tx.SelectContext(ctx, &ids,
		"SELECT id FROM products WHERE category_id = $1", categoryID)
	return ids, err
}

// ProductRowExists reports whether a product row exists, for FK pre-checks.
func (s *Store) ProductRowExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id)
	return exists, err
}

// CategoryRowExists reports whether a category row exists, for FK pre-checks.
func (s *Store) CategoryRowExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id)
	return exists, err
}
