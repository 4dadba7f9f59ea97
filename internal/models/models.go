package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a registered customer. HashedPassword never leaves the
// store/service layers; API responses are built through schema projections.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Firstname      string    `db:"firstname" json:"firstname"`
	LastName       string    `db:"last_name" json:"last_name"`
	Birthday       time.Time `db:"birthday" json:"birthday"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UUID           uuid.UUID `db:"uuid" json:"uuid"`
}

// Category is a flat grouping of products (no nesting).
type Category struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Slug        string         `db:"slug" json:"slug"`
	Description sql.NullString `db:"description" json:"description"`
}

// Product is an item in the catalog.
type Product struct {
	ID            int64               `db:"id" json:"id"`
	Name          string              `db:"name" json:"name"`
	Slug          string              `db:"slug" json:"slug"`
	Description   sql.NullString      `db:"description" json:"description"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	DiscountPrice decimal.NullDecimal `db:"discount_price" json:"discount_price"`
	Stock         int                 `db:"stock" json:"stock"`
	IsActive      bool                `db:"is_active" json:"is_active"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
	CategoryID    int64               `db:"category_id" json:"category_id"`
}

// EffectivePrice is the price a buyer pays right now: the discount price
// when one is set, the regular price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// ProductWithCategory is a catalog listing row: a product joined with its
// category.
type ProductWithCategory struct {
	Product
	Category Category `db:"category"`
}

// Order is a customer order.
type Order struct {
	ID          int64           `db:"id" json:"id"`
	Status      string          `db:"status" json:"status"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	Address     string          `db:"address" json:"address"`
	Phone       string          `db:"phone" json:"phone"`
	UserID      int64           `db:"user_id" json:"user_id"`
}

// OrderItem is one position in an order. Price is fixed at order time and
// never changes along with later product price edits.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
}

// Review is a customer review of a product.
type Review struct {
	ID        int64          `db:"id" json:"id"`
	Rating    int            `db:"rating" json:"rating"`
	Text      sql.NullString `db:"text" json:"text"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UserID    int64          `db:"user_id" json:"user_id"`
	ProductID int64          `db:"product_id" json:"product_id"`
}

// Order statuses
const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
