package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
	middleware "github.com/Skotchmaster/shopcart/pkg/middleware/auth"
)

type CartHTTP struct {
	Svc *service.CartService
}

type cartMutation func(c echo.Context, userID, productID uuid.UUID) (*transport.CartView, error)

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	return h.fromBody(c, "cart.add_item", func(c echo.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
		return h.Svc.AddItem(c.Request().Context(), userID, productID)
	})
}

func (h *CartHTTP) IncreaseQty(c echo.Context) error {
	return h.fromBody(c, "cart.increase_qty", func(c echo.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
		return h.Svc.IncreaseQty(c.Request().Context(), userID, productID)
	})
}

func (h *CartHTTP) DecreaseQty(c echo.Context) error {
	return h.fromBody(c, "cart.decrease_qty", func(c echo.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
		return h.Svc.DecreaseQty(c.Request().Context(), userID, productID)
	})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("remove_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := service.ParseProductID(c.Param("productId"))
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	view, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	l.Info("remove_item_success", "product_id", productID)
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) fromBody(c echo.Context, name string, do cartMutation) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("cart_mutation_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_mutation_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	productID, err := service.ParseProductID(req.ProductID)
	if err != nil {
		return fail(l, "cart_mutation_error", err)
	}

	view, err := do(c, userID, productID)
	if err != nil {
		return fail(l, "cart_mutation_error", err)
	}

	l.Info("cart_mutation_success", "product_id", productID)
	return c.JSON(http.StatusOK, view)
}
