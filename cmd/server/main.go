package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shopcart/internal/cache"
	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/googleauth"
	"github.com/Skotchmaster/shopcart/internal/httpserver"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/search"
	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/pkg/config"
	"github.com/Skotchmaster/shopcart/pkg/db"
	"github.com/Skotchmaster/shopcart/pkg/logging"
	"github.com/Skotchmaster/shopcart/pkg/metrics"
	loggingmw "github.com/Skotchmaster/shopcart/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", db.DriverPostgres, db.DriverSQLite)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := repo.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	r := &repo.GormRepo{DB: gdb}

	var publisher events.Publisher = events.Noop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	catalog := &service.CatalogService{Repo: r, Events: publisher}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("product_cache_disabled", "error", err)
		} else {
			catalog.Cache = cache.NewProductCache(rdb, cfg.ProductCacheTTL)
		}
	}

	if cfg.ESURL != "" {
		es, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Warn("search_index_disabled", "error", err)
		} else {
			catalog.Search = search.NewIndex(es, cfg.ESIndex)
			go func() {
				n, err := catalog.Reindex(logging.IntoContext(ctx, logger))
				if err != nil {
					logger.Warn("search_reindex_failed", "indexed", n, "error", err)
					return
				}
				logger.Info("search_reindex_done", "indexed", n)
			}()
		}
	}

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL, Events: publisher}
	if cfg.GoogleClientID != "" {
		authSvc.Google = googleauth.NewVerifier(cfg.GoogleClientID)
	} else {
		logger.Info("google_sign_in_disabled", "reason", "GOOGLE_CLIENT_ID is empty")
	}

	m := metrics.NewServerMetrics(cfg.ServiceName)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
		loggingmw.RequestLogger(logger),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}),
		m.Middleware(),
	)

	httpserver.Register(e, &httpserver.Deps{
		DB:             gdb,
		JWTSecret:      cfg.JWTSecret,
		AuthRateLimit:  cfg.AuthRateLimit,
		Metrics:        m,
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.CookieSecure},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Catalog: catalog, Events: publisher}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Catalog: catalog, Events: publisher}},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
