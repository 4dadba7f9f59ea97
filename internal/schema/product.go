package schema

import (
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// ProductCreateRequest is the payload for creating a product.
type ProductCreateRequest struct {
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         int              `json:"stock"`
	CategoryID    int64            `json:"category_id"`
}

func (r *ProductCreateRequest) Validate() error {
	v := &fault.ValidationError{}

	r.Name = strings.TrimSpace(r.Name)
	if n := utf8.RuneCountInString(r.Name); n < 2 || n > 200 {
		v.Add("name", "must be 2-200 characters")
	}
	r.Slug = checkSlug(v, "slug", r.Slug, 200)
	if r.Description != nil {
		*r.Description = checkLen(v, "description", *r.Description, 0, 10000)
	}
	checkPrice(v, "price", r.Price)
	if r.DiscountPrice != nil {
		checkDiscount(v, "discount_price", *r.DiscountPrice, r.Price)
	}
	if r.Stock < 0 {
		v.Add("stock", "must not be negative")
	}
	if r.CategoryID <= 0 {
		v.Add("category_id", "is required")
	}

	return v.OrNil()
}

// ProductUpdateRequest carries the optional fields of a partial product
// update. The slug is immutable once created.
type ProductUpdateRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         *int             `json:"stock"`
	IsActive      *bool            `json:"is_active"`
}

func (r *ProductUpdateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if n := utf8.RuneCountInString(*r.Name); n < 2 || n > 200 {
			v.Add("name", "must be 2-200 characters")
		}
	}
	if r.Description != nil {
		*r.Description = checkLen(v, "description", *r.Description, 0, 10000)
	}
	if r.Price != nil {
		checkPrice(v, "price", *r.Price)
	}
	if r.DiscountPrice != nil {
		checkPrice(v, "discount_price", *r.DiscountPrice)
	}
	if r.Stock != nil && *r.Stock < 0 {
		v.Add("stock", "must not be negative")
	}

	return v.OrNil()
}

// ApplyTo copies only the supplied fields onto the stored product. The
// price/discount cross-field rule must be re-checked on the merged result
// because either side may come from storage.
func (r *ProductUpdateRequest) ApplyTo(p *models.Product) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = sql.NullString{String: *r.Description, Valid: true}
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.DiscountPrice != nil {
		p.DiscountPrice = decimal.NullDecimal{Decimal: *r.DiscountPrice, Valid: true}
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}

	if p.DiscountPrice.Valid && !p.DiscountPrice.Decimal.LessThan(p.Price) {
		v := &fault.ValidationError{}
		return v.Add("discount_price", "must be less than price")
	}
	return nil
}

// ProductResponse is the output projection of a product.
type ProductResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         int              `json:"stock"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CategoryID    int64            `json:"category_id"`
}

// ProductWithCategoryResponse is a product projection with its category
// embedded, used for catalog listings.
type ProductWithCategoryResponse struct {
	ProductResponse
	Category CategoryResponse `json:"category"`
}

// NewProductResponse projects a stored product into its response shape.
func NewProductResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		Price:      p.Price,
		Stock:      p.Stock,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		CategoryID: p.CategoryID,
	}
	if p.Description.Valid {
		resp.Description = &p.Description.String
	}
	if p.DiscountPrice.Valid {
		d := p.DiscountPrice.Decimal
		resp.DiscountPrice = &d
	}
	return resp
}

// NewProductWithCategoryResponses projects a page of catalog rows.
func NewProductWithCategoryResponses(rows []models.ProductWithCategory) []ProductWithCategoryResponse {
	out := make([]ProductWithCategoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ProductWithCategoryResponse{
			ProductResponse: NewProductResponse(&rows[i].Product),
			Category:        NewCategoryResponse(&rows[i].Category),
		})
	}
	return out
}
