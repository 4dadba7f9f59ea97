package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"shop-service/internal/fault"
	"shop-service/internal/models"
	"shop-service/internal/schema"
	"shop-service/internal/store"
	"shop-service/internal/util"
)

// ReviewService handles product reviews.
type ReviewService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(store *store.Store) *ReviewService {
	return &ReviewService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Create posts a review after checking the author and the product exist.
func (s *ReviewService) Create(ctx context.Context, req *schema.ReviewCreateRequest) (*schema.ReviewResponse, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("review").Inc()
		return nil, err
	}

	review := &models.Review{
		Rating:    req.Rating,
		UserID:    req.UserID,
		ProductID: req.ProductID,
	}
	if req.Text != nil {
		review.Text = sql.NullString{String: *req.Text, Valid: true}
	}

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.store.UserRowExists(ctx, tx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return fault.NotFound("user", req.UserID)
		}

		exists, err = s.store.ProductRowExists(ctx, tx, req.ProductID)
		if err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if !exists {
			return fault.NotFound("product", req.ProductID)
		}
		return s.store.InsertReview(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	util.ReviewsCreatedTotal.Inc()
	s.logger.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("product_id", review.ProductID))

	resp := schema.NewReviewResponse(review)
	return &resp, nil
}

// Get retrieves one review by id.
func (s *ReviewService) Get(ctx context.Context, id int64) (*schema.ReviewResponse, error) {
	review, err := s.store.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := schema.NewReviewResponse(review)
	return &resp, nil
}

// ListByProduct retrieves a page of a product's reviews.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64, skip, limit int) ([]schema.ReviewResponse, error) {
	if _, err := s.store.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	skip, limit = schema.NormalizeListParams(skip, limit)
	reviews, err := s.store.ListReviewsByProductID(ctx, productID, skip, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewReviewResponses(reviews), nil
}

// Update applies only the supplied fields onto the stored review.
func (s *ReviewService) Update(ctx context.Context, id int64, req *schema.ReviewUpdateRequest) (*schema.ReviewResponse, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.Update")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("review").Inc()
		return nil, err
	}

	var review *models.Review
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		review, err = s.store.GetReviewForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		req.ApplyTo(review)
		return s.store.UpdateReview(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review updated", zap.Int64("review_id", id))

	resp := schema.NewReviewResponse(review)
	return &resp, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "ReviewService.Delete")
	defer span.End()

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.store.DeleteReview(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}
