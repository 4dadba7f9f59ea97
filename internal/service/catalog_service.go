package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"shop-service/internal/fault"
	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/schema"
	"shop-service/internal/store"
	"shop-service/internal/util"
)

// CatalogService handles categories and products. The product cache is
// optional: when cache is nil every read goes straight to the database.
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateCategory creates a category after checking name/slug uniqueness in
// the same transaction.
func (s *CatalogService) CreateCategory(ctx context.Context, req *schema.CategoryCreateRequest) (*schema.CategoryResponse, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateCategory")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("category").Inc()
		return nil, err
	}

	category := &models.Category{
		Name: req.Name,
		Slug: req.Slug,
	}
	if req.Description != nil {
		category.Description = sql.NullString{String: *req.Description, Valid: true}
	}

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := s.store.CategoryNameOrSlugTaken(ctx, tx, category.Name, category.Slug)
		if err != nil {
			return fmt.Errorf("failed to check category uniqueness: %w", err)
		}
		if taken {
			return fault.Conflict("category", "name or slug already exists")
		}
		return s.store.InsertCategory(ctx, tx, category)
	})
	if err != nil {
		if fault.IsConflict(err) {
			util.ConflictsTotal.WithLabelValues("category").Inc()
		}
		return nil, err
	}

	util.CategoriesCreatedTotal.Inc()
	s.logger.Info("Category created",
		zap.Int64("category_id", category.ID),
		zap.String("slug", category.Slug))

	resp := schema.NewCategoryResponse(category)
	return &resp, nil
}

// GetCategory retrieves one category by id.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*schema.CategoryResponse, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := schema.NewCategoryResponse(category)
	return &resp, nil
}

// ListCategories retrieves a page of categories.
func (s *CatalogService) ListCategories(ctx context.Context, skip, limit int) ([]schema.CategoryResponse, error) {
	skip, limit = schema.NormalizeListParams(skip, limit)
	categories, err := s.store.ListCategories(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewCategoryResponses(categories), nil
}

// UpdateCategory applies only the supplied fields onto the stored category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req *schema.CategoryUpdateRequest) (*schema.CategoryResponse, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateCategory")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("category").Inc()
		return nil, err
	}

	var category *models.Category
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		category, err = s.store.GetCategoryForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		req.ApplyTo(category)
		return s.store.UpdateCategory(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int64("category_id", id))

	resp := schema.NewCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory removes a category. Its products and their reviews are
// removed by the database cascade; the cache entries for those products are
// dropped here before the delete commits.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteCategory")
	defer span.End()

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if s.cache != nil {
			products, err := s.store.ListProductIDsByCategory(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, productID := range products {
				if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
					s.logger.Warn("Failed to invalidate product cache",
						zap.Int64("product_id", productID), zap.Error(err))
				}
			}
		}
		return s.store.DeleteCategory(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}

// CreateProduct creates a product after verifying the category exists and
// the slug is free, all in one transaction.
func (s *CatalogService) CreateProduct(ctx context.Context, req *schema.ProductCreateRequest) (*schema.ProductResponse, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("product").Inc()
		return nil, err
	}

	product := &models.Product{
		Name:       req.Name,
		Slug:       req.Slug,
		Price:      req.Price,
		Stock:      req.Stock,
		IsActive:   true,
		CategoryID: req.CategoryID,
	}
	if req.Description != nil {
		product.Description = sql.NullString{String: *req.Description, Valid: true}
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice.Decimal = *req.DiscountPrice
		product.DiscountPrice.Valid = true
	}

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.store.CategoryRowExists(ctx, tx, req.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return fault.NotFound("category", req.CategoryID)
		}

		taken, err := s.store.ProductSlugTaken(ctx, tx, product.Slug)
		if err != nil {
			return fmt.Errorf("failed to check product slug: %w", err)
		}
		if taken {
			return fault.Conflict("product", "slug already exists")
		}
		return s.store.InsertProduct(ctx, tx, product)
	})
	if err != nil {
		if fault.IsConflict(err) {
			util.ConflictsTotal.WithLabelValues("product").Inc()
		}
		return nil, err
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("slug", product.Slug))

	resp := schema.NewProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves one product by id, preferring the cache.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*schema.ProductResponse, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok {
			util.ProductCacheHits.Inc()
			resp := schema.NewProductResponse(product)
			return &resp, nil
		}
		util.ProductCacheMisses.Inc()
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}

	resp := schema.NewProductResponse(product)
	return &resp, nil
}

// ListProducts retrieves a page of products joined with their categories.
// An empty page is a valid result, not a fault.
func (s *CatalogService) ListProducts(ctx context.Context, skip, limit int) ([]schema.ProductWithCategoryResponse, error) {
	skip, limit = schema.NormalizeListParams(skip, limit)
	rows, err := s.store.ListProductsWithCategory(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewProductWithCategoryResponses(rows), nil
}

// UpdateProduct applies only the supplied fields, re-checks the
// price/discount invariant on the merged row, refreshes updated_at and
// drops the cache entry.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *schema.ProductUpdateRequest) (*schema.ProductResponse, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("product").Inc()
		return nil, err
	}

	var product *models.Product
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		product, err = s.store.GetProductForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := req.ApplyTo(product); err != nil {
			util.ValidationFailuresTotal.WithLabelValues("product").Inc()
			return err
		}
		return s.store.UpdateProduct(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProduct(ctx, id); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
		}
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))

	resp := schema.NewProductResponse(product)
	return &resp, nil
}

// DeleteProduct removes a product and its reviews (cascade) and drops the
// cache entry. Products referenced by orders are kept.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.store.DeleteProduct(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProduct(ctx, id); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
		}
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}
