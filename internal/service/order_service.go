package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-service/internal/broker"
	"shop-service/internal/fault"
	"shop-service/internal/models"
	"shop-service/internal/schema"
	"shop-service/internal/store"
	"shop-service/internal/util"
)

// OrderService handles order placement and lifecycle.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// Create places an order. The user check, product lookup, order insert and
// every item insert share one transaction; each item records the effective
// price at order time, which never changes afterwards.
func (s *OrderService) Create(ctx context.Context, req *schema.OrderCreateRequest) (*schema.OrderWithItemsResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("order").Inc()
		return nil, err
	}

	var (
		order *models.Order
		items []models.OrderItem
	)
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.store.UserRowExists(ctx, tx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return fault.NotFound("user", req.UserID)
		}

		products, err := s.loadOrderProducts(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		order = &models.Order{
			Status:      models.OrderStatusCreated,
			TotalAmount: calculateTotal(req.Items, products),
			Address:     req.Address,
			Phone:       req.Phone,
			UserID:      req.UserID,
		}
		if err := s.store.InsertOrder(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items = make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			orderItem := models.OrderItem{
				Quantity:  item.Quantity,
				Price:     products[item.ProductID].EffectivePrice(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
			}
			if err := s.store.InsertOrderItem(ctx, tx, &orderItem); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, orderItem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.String("total_amount", order.TotalAmount.String()))

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       eventItems,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	resp := schema.NewOrderWithItemsResponse(order, items)
	return &resp, nil
}

// loadOrderProducts fetches all ordered products and fails with NotFound
// when any id has no row.
func (s *OrderService) loadOrderProducts(ctx context.Context, tx *sqlx.Tx, items []schema.OrderItemCreateRequest) (map[int64]*models.Product, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range items {
		if _, ok := productMap[item.ProductID]; !ok {
			return nil, fault.NotFound("product", item.ProductID)
		}
	}
	return productMap, nil
}

// calculateTotal sums effective price times quantity over all positions.
func calculateTotal(items []schema.OrderItemCreateRequest, products map[int64]*models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		price := products[item.ProductID].EffectivePrice()
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Get retrieves an order with its items.
func (s *OrderService) Get(ctx context.Context, id int64) (*schema.OrderWithItemsResponse, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.GetOrderItemsByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := schema.NewOrderWithItemsResponse(order, items)
	return &resp, nil
}

// ListByUser retrieves a page of a user's orders.
func (s *OrderService) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]schema.OrderResponse, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	skip, limit = schema.NormalizeListParams(skip, limit)
	orders, err := s.store.ListOrdersByUserID(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewOrderResponses(orders), nil
}

// Update applies only the supplied fields (status, address, phone) onto the
// stored order. A status change is published as a domain event.
func (s *OrderService) Update(ctx context.Context, id int64, req *schema.OrderUpdateRequest) (*schema.OrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Update")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("order").Inc()
		return nil, err
	}

	var (
		order     *models.Order
		oldStatus string
	)
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		order, err = s.store.GetOrderForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		oldStatus = order.Status
		req.ApplyTo(order)
		return s.store.UpdateOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order updated", zap.Int64("order_id", id), zap.String("status", order.Status))

	if order.Status != oldStatus {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: order.Status,
		}
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	resp := schema.NewOrderResponse(order)
	return &resp, nil
}
