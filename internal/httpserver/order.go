package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocerystore/internal/logging"
	authmw "github.com/Skotchmaster/grocerystore/internal/middleware/auth"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/service"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// ownedBy reports whether the order belongs to the caller.
func ownedBy(o *models.Order, id authmw.Identity) bool {
	return o.User != nil && o.User.Email == id.Email
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_order")

	id, ok := authmw.IdentityFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("order_create_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to place order: invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, id.Email, req)
	if err != nil {
		return fail(l, "order_create_error", "Failed to place order: ", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) MyHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_history")

	id, ok := authmw.IdentityFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	orders, err := h.Svc.OrderHistory(ctx, id.Email)
	if err != nil {
		return fail(l, "order_history_error", "", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_order")

	id, ok := authmw.IdentityFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	orderID, ok := parseID(c)
	if !ok {
		l.Warn("get_order_error", "status", http.StatusBadRequest, "reason", "bad id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		return fail(l, "get_order_error", "", err)
	}
	if !ownedBy(order, id) {
		l.Warn("get_order_error", "status", http.StatusForbidden, "reason", "not owner", "order_id", orderID)
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	return c.JSON(http.StatusOK, order)
}
