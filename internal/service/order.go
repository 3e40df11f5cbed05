package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/grocerystore/internal/events"
	"github.com/Skotchmaster/grocerystore/internal/logging"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

const maxLineQuantity = 10000

// maxOrderTotal is the largest value the total_amount column holds.
var maxOrderTotal = decimal.RequireFromString("999999999999.99")

type OrderService struct {
	Users    UserFinder
	Products ProductFinder
	Orders   OrderStore
	Events   events.Publisher
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// CreateOrder prices every line from the current catalog and stores the order
// with its items atomically. Any unknown product rejects the whole order.
// Stock is neither checked nor decremented.
func (s *OrderService) CreateOrder(ctx context.Context, email string, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if len(req.Items) == 0 {
		return nil, invalid("items required")
	}
	for i, it := range req.Items {
		if it.ProductID == 0 {
			return nil, invalid("item %d: productId required", i)
		}
		if it.Quantity <= 0 {
			return nil, invalid("item %d: quantity must be > 0", i)
		}
		if it.Quantity > maxLineQuantity {
			return nil, invalid("item %d: quantity must be at most %d", i, maxLineQuantity)
		}
	}

	user, err := s.Users.UserByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err, "user "+email)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.Products.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, storageErr(err, productSubject(it.ProductID))
		}
		item := models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			Price:       p.Price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	if total.GreaterThan(maxOrderTotal) {
		return nil, invalid("order total %s exceeds %s", total.StringFixed(2), maxOrderTotal.StringFixed(2))
	}

	order := &models.Order{
		UserID:      user.ID,
		Items:       items,
		TotalAmount: total,
		OrderDate:   s.now(),
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, storageErr(err, "order")
	}

	events.Emit(ctx, s.Events, events.TopicOrders, events.Key(order.ID), events.OrderPlaced{
		Type:        events.TypeOrderPlaced,
		OrderID:     order.ID,
		UserID:      user.ID,
		Email:       user.Email,
		Items:       len(order.Items),
		TotalAmount: order.TotalAmount,
	})
	l.Info("order_placed", "order_id", order.ID, "items", len(order.Items), "total", order.TotalAmount.String())
	return order, nil
}

// OrderHistory lists the user's orders, most recent first.
func (s *OrderService) OrderHistory(ctx context.Context, email string) ([]models.Order, error) {
	user, err := s.Users.UserByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err, "user "+email)
	}
	orders, err := s.Orders.OrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err, "orders")
	}
	return orders, nil
}

// GetOrder does not check ownership; callers decide who may see the order.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storageErr(err, fmt.Sprintf("order %d", id))
	}
	return o, nil
}
