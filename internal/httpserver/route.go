package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/pkg/db"
	"github.com/Skotchmaster/shopcart/pkg/metrics"
	middleware "github.com/Skotchmaster/shopcart/pkg/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	AuthRateLimit  int
	Metrics        *metrics.ServerMetrics
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "API is running") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	requireAuth := middleware.RequireAuth(d.JWTSecret)
	api := e.Group("/api")

	auth := api.Group("/auth")
	if d.AuthRateLimit > 0 {
		auth.Use(authLimiter(d.AuthRateLimit))
	}
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/google", d.AuthHandler.Google)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct, requireAuth, middleware.RequireRole(models.RoleAdmin))

	cart := api.Group("/cart", requireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddItem)
	cart.PUT("/increase", d.CartHandler.IncreaseQty)
	cart.PUT("/decrease", d.CartHandler.DecreaseQty)
	cart.DELETE("/remove/:productId", d.CartHandler.RemoveItem)

	orders := api.Group("/orders", requireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("/my-orders", d.OrderHandler.ListOrders)
}

// authLimiter throttles credential endpoints per client IP.
func authLimiter(perSecond int) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     perSecond,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
