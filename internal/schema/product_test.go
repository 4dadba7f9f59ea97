package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validProductCreate() ProductCreateRequest {
	return ProductCreateRequest{
		Name:       "Phone",
		Slug:       "phone-1",
		Price:      dec("999.99"),
		Stock:      10,
		CategoryID: 1,
	}
}

func TestProductCreateValidate(t *testing.T) {
	req := validProductCreate()
	assert.NoError(t, req.Validate())
}

func TestProductCreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductCreateRequest)
		field  string
	}{
		{"short name", func(r *ProductCreateRequest) { r.Name = "P" }, "name"},
		{"slug with underscore", func(r *ProductCreateRequest) { r.Slug = "phone_1" }, "slug"},
		{"zero price", func(r *ProductCreateRequest) { r.Price = decimal.Zero }, "price"},
		{"negative price", func(r *ProductCreateRequest) { r.Price = dec("-1") }, "price"},
		{"price over max", func(r *ProductCreateRequest) { r.Price = dec("100000000.00") }, "price"},
		{"three decimal places", func(r *ProductCreateRequest) { r.Price = dec("9.999") }, "price"},
		{"negative stock", func(r *ProductCreateRequest) { r.Stock = -1 }, "stock"},
		{"missing category", func(r *ProductCreateRequest) { r.CategoryID = 0 }, "category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProductCreate()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.True(t, fault.IsValidation(err))
		})
	}
}

func TestProductCreateDiscountMustBeLessThanPrice(t *testing.T) {
	req := validProductCreate()

	equal := dec("999.99")
	req.DiscountPrice = &equal
	assert.Error(t, req.Validate())

	higher := dec("1099.99")
	req.DiscountPrice = &higher
	assert.Error(t, req.Validate())

	lower := dec("899.99")
	req.DiscountPrice = &lower
	assert.NoError(t, req.Validate())
}

func TestProductUpdateApplyToPartial(t *testing.T) {
	product := models.Product{
		ID:    3,
		Name:  "Phone",
		Slug:  "phone-1",
		Price: dec("999.99"),
		Stock: 10,
	}

	stock := 5
	req := ProductUpdateRequest{Stock: &stock}
	require.NoError(t, req.Validate())
	require.NoError(t, req.ApplyTo(&product))

	assert.Equal(t, 5, product.Stock)
	assert.Equal(t, "Phone", product.Name)
	assert.True(t, product.Price.Equal(dec("999.99")))
}

func TestProductUpdateDiscountAgainstStoredPrice(t *testing.T) {
	product := models.Product{Price: dec("100.00")}

	// discount alone, compared against the stored price
	tooHigh := dec("150.00")
	req := ProductUpdateRequest{DiscountPrice: &tooHigh}
	require.NoError(t, req.Validate())
	err := req.ApplyTo(&product)
	assert.True(t, fault.IsValidation(err))

	ok := dec("50.00")
	req = ProductUpdateRequest{DiscountPrice: &ok}
	require.NoError(t, req.Validate())
	assert.NoError(t, req.ApplyTo(&product))
	assert.True(t, product.DiscountPrice.Decimal.Equal(dec("50.00")))
}

func TestProductUpdateNewPriceBelowStoredDiscount(t *testing.T) {
	product := models.Product{
		Price: dec("100.00"),
		DiscountPrice: decimal.NullDecimal{
			Decimal: dec("80.00"),
			Valid:   true,
		},
	}

	newPrice := dec("70.00")
	req := ProductUpdateRequest{Price: &newPrice}
	require.NoError(t, req.Validate())
	assert.True(t, fault.IsValidation(req.ApplyTo(&product)))
}

func TestEffectivePrice(t *testing.T) {
	p := models.Product{Price: dec("999.99")}
	assert.True(t, p.EffectivePrice().Equal(dec("999.99")))

	p.DiscountPrice = decimal.NullDecimal{Decimal: dec("899.99"), Valid: true}
	assert.True(t, p.EffectivePrice().Equal(dec("899.99")))
}
