package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"shop-service/internal/models"
	"shop-service/internal/schema"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTotal(t *testing.T) {
	items := []schema.OrderItemCreateRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	products := map[int64]*models.Product{
		1: {ID: 1, Price: dec("999.99")},
		2: {ID: 2, Price: dec("500.00")},
	}

	total := calculateTotal(items, products)

	assert.True(t, total.Equal(dec("2499.98")), "got %s", total)
}

func TestCalculateTotalUsesDiscountPrice(t *testing.T) {
	items := []schema.OrderItemCreateRequest{
		{ProductID: 1, Quantity: 3},
	}

	products := map[int64]*models.Product{
		1: {
			ID:            1,
			Price:         dec("100.00"),
			DiscountPrice: decimal.NullDecimal{Decimal: dec("80.00"), Valid: true},
		},
	}

	total := calculateTotal(items, products)

	assert.True(t, total.Equal(dec("240.00")), "got %s", total)
}

func TestCreateOrder(t *testing.T) {
	// Requires a database-backed store; the transactional flow is covered by
	// the store integration tests.
	t.Skip("Requires database-backed store")
}
