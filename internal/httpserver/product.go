package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/internal/util"
	"github.com/Skotchmaster/shopcart/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	filter, err := parseFilter(c)
	if err != nil {
		l.Warn("get_products_error", "status", 400, "reason", "invalid filter", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := util.ClampPage(util.ParseIntDefault(c.QueryParam("page"), 1))
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.ListProducts(ctx, filter, offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, productPage(page, offset, limit, total, items))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page := util.ClampPage(util.ParseIntDefault(c.QueryParam("page"), 1))
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, productPage(page, offset, limit, total, items))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func parseFilter(c echo.Context) (transport.ProductFilter, error) {
	f := transport.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	if raw := c.QueryParam("rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, errors.New("rating must be a number")
		}
		f.MinRating = &v
	}
	for _, p := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
	} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return f, fmt.Errorf("%s must be a number", p.name)
		}
		*p.dst = &v
	}
	return f, nil
}

func productPage(page, offset, limit int, total int64, items []models.Product) transport.ProductPage {
	return transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}
