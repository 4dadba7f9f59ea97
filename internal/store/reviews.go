package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// InsertReview inserts a review and scans the generated columns back.
func (s *Store) InsertReview(ctx context.Context, tx *sqlx.Tx, review *models.Review) error {
	query := `
		INSERT INTO reviews (rating, text, user_id, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return tx.QueryRowxContext(ctx, query,
		review.Rating, review.Text, review.UserID, review.ProductID,
	).Scan(&review.ID, &review.CreatedAt)
}

// GetReviewByID retrieves a review by ID
func (s *Store) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := s.db.GetContext(ctx, &review, "SELECT * FROM reviews WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("review", id)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewForUpdate loads a review inside tx with a row lock.
func (s *Store) GetReviewForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Review, error) {
	var review models.Review
	err := tx.GetContext(ctx, &review, "SELECT * FROM reviews WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("review", id)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviewsByProductID retrieves a page of a product's reviews in storage
// order.
func (s *Store) ListReviewsByProductID(ctx context.Context, productID int64, skip, limit int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE product_id = $1 ORDER BY id OFFSET $2 LIMIT $3",
		productID, skip, limit)
	return reviews, err
}

// UpdateReview writes the mutable review fields back.
func (s *Store) UpdateReview(ctx context.Context, tx *sqlx.Tx, review *models.Review) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reviews SET rating = $1, text = $2 WHERE id = $3",
		review.Rating, review.Text, review.ID)
	return err
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fault.NotFound("review", id)
	}
	return nil
}
