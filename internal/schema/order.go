package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// OrderItemCreateRequest is one position in an order payload.
type OrderItemCreateRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderCreateRequest is the payload for placing an order.
type OrderCreateRequest struct {
	UserID  int64                    `json:"user_id"`
	Address string                   `json:"address"`
	Phone   string                   `json:"phone"`
	Items   []OrderItemCreateRequest `json:"items"`
}

func (r *OrderCreateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.UserID <= 0 {
		v.Add("user_id", "is required")
	}
	r.Address = checkLen(v, "address", r.Address, 10, 500)
	r.Phone = checkLen(v, "phone", r.Phone, 5, 20)

	if len(r.Items) < 1 || len(r.Items) > 100 {
		v.Add("items", "must contain 1-100 positions")
	}
	for i, item := range r.Items {
		if item.ProductID <= 0 {
			v.Add(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.Quantity < 1 || item.Quantity > 100 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "must be 1-100")
		}
	}

	return v.OrNil()
}

// OrderUpdateRequest carries the optional fields of a partial order update,
// primarily status transitions.
type OrderUpdateRequest struct {
	Status  *string `json:"status"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (r *OrderUpdateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.Status != nil && !models.ValidOrderStatus(*r.Status) {
		v.Add("status", "must be one of: created, paid, shipped, delivered, cancelled")
	}
	if r.Address != nil {
		*r.Address = checkLen(v, "address", *r.Address, 10, 500)
	}
	if r.Phone != nil {
		*r.Phone = checkLen(v, "phone", *r.Phone, 5, 20)
	}

	return v.OrNil()
}

// ApplyTo copies only the supplied fields onto the stored order.
func (r *OrderUpdateRequest) ApplyTo(o *models.Order) {
	if r.Status != nil {
		o.Status = *r.Status
	}
	if r.Address != nil {
		o.Address = *r.Address
	}
	if r.Phone != nil {
		o.Phone = *r.Phone
	}
}

// OrderItemResponse is the output projection of an order item. Price is the
// snapshot taken when the order was placed.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	OrderID   int64           `json:"order_id"`
}

// OrderResponse is the output projection of an order.
type OrderResponse struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	UserID      int64           `json:"user_id"`
}

// OrderWithItemsResponse is an order projection with its positions embedded.
type OrderWithItemsResponse struct {
	OrderResponse
	Items []OrderItemResponse `json:"items"`
}

// NewOrderResponse projects a stored order into its response shape.
func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Address:     o.Address,
		Phone:       o.Phone,
		UserID:      o.UserID,
	}
}

// NewOrderWithItemsResponse projects an order together with its items.
func NewOrderWithItemsResponse(o *models.Order, items []models.OrderItem) OrderWithItemsResponse {
	resp := OrderWithItemsResponse{
		OrderResponse: NewOrderResponse(o),
		Items:         make([]OrderItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			OrderID:   item.OrderID,
		})
	}
	return resp
}

// NewOrderResponses projects a page of orders.
func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
