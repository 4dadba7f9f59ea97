package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

func validOrderCreate() OrderCreateRequest {
	return OrderCreateRequest{
		UserID:  1,
		Address: "ul. Lenina, d. 10, kv. 25",
		Phone:   "+79161234567",
		Items: []OrderItemCreateRequest{
			{ProductID: 1, Quantity: 2},
		},
	}
}

func TestOrderCreateValidate(t *testing.T) {
	req := validOrderCreate()
	assert.NoError(t, req.Validate())
}

func TestOrderCreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OrderCreateRequest)
	}{
		{"missing user", func(r *OrderCreateRequest) { r.UserID = 0 }},
		{"short address", func(r *OrderCreateRequest) { r.Address = "short" }},
		{"long phone", func(r *OrderCreateRequest) { r.Phone = strings.Repeat("1", 21) }},
		{"no items", func(r *OrderCreateRequest) { r.Items = nil }},
		{"too many items", func(r *OrderCreateRequest) {
			r.Items = make([]OrderItemCreateRequest, 101)
			for i := range r.Items {
				r.Items[i] = OrderItemCreateRequest{ProductID: int64(i + 1), Quantity: 1}
			}
		}},
		{"zero quantity", func(r *OrderCreateRequest) { r.Items[0].Quantity = 0 }},
		{"quantity over 100", func(r *OrderCreateRequest) { r.Items[0].Quantity = 101 }},
		{"missing product id", func(r *OrderCreateRequest) { r.Items[0].ProductID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderCreate()
			tt.mutate(&req)
			assert.True(t, fault.IsValidation(req.Validate()))
		})
	}
}

func TestOrderCreateItemViolationNamesPosition(t *testing.T) {
	req := validOrderCreate()
	req.Items = append(req.Items, OrderItemCreateRequest{ProductID: 2, Quantity: 0})

	err := req.Validate()
	require.Error(t, err)

	ve, ok := err.(*fault.ValidationError)
	require.True(t, ok)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "items[1].quantity", ve.Fields[0].Field)
}

func TestOrderUpdateStatus(t *testing.T) {
	for _, status := range []string{"created", "paid", "shipped", "delivered", "cancelled"} {
		s := status
		req := OrderUpdateRequest{Status: &s}
		assert.NoError(t, req.Validate(), status)
	}

	bad := "refunded"
	req := OrderUpdateRequest{Status: &bad}
	assert.True(t, fault.IsValidation(req.Validate()))
}

func TestOrderUpdateApplyToPartial(t *testing.T) {
	order := models.Order{
		ID:      5,
		Status:  models.OrderStatusCreated,
		Address: "ul. Lenina, d. 10, kv. 25",
		Phone:   "+79161234567",
	}

	status := models.OrderStatusPaid
	req := OrderUpdateRequest{Status: &status}
	require.NoError(t, req.Validate())
	req.ApplyTo(&order)

	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, "ul. Lenina, d. 10, kv. 25", order.Address)
	assert.Equal(t, "+79161234567", order.Phone)
}
