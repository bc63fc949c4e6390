package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
	middleware "github.com/Skotchmaster/shopcart/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("place_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := h.Svc.PlaceOrder(ctx, userID)
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		Message: "Order placed successfully",
		Order:   order,
	})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}
