package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nutrimart/storefront/internal/cart"
	"github.com/nutrimart/storefront/internal/events"
	"github.com/nutrimart/storefront/internal/httpserver"
	"github.com/nutrimart/storefront/internal/search"
	"github.com/nutrimart/storefront/internal/service"
	"github.com/nutrimart/storefront/internal/storage"
	"github.com/nutrimart/storefront/pkg/config"
	pkgdb "github.com/nutrimart/storefront/pkg/db"
	"github.com/nutrimart/storefront/pkg/logging"
	loggingmw "github.com/nutrimart/storefront/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	defer closeStore()

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()
	if producer == nil {
		logger.Info("kafka disabled, events will be dropped")
	}

	var idx *search.Index
	if cfg.ESURL != "" {
		idx, err = search.NewIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
	} else {
		logger.Info("elasticsearch disabled, product search unavailable")
	}

	cartTTL := time.Duration(cfg.CartTTLHours) * time.Hour
	var cartStore cart.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cart.NewRedisStore(cfg.RedisAddr, cartTTL)
		if err != nil {
			log.Fatalf("redis init: %v", err)
		}
		defer redisStore.Close()
		cartStore = redisStore
	}

	carts := cart.NewManager(cartTTL, cartStore, logger)
	defer carts.Close()

	catalogSvc := service.NewCatalogService(store, producer, idx)
	authSvc := &service.AuthService{
		Store:      store,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	}
	checkoutSvc := service.NewCheckoutService(producer)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Products: &httpserver.ProductHTTP{Svc: catalogSvc},
		Auth:     &httpserver.AuthHTTP{Svc: authSvc},
		Cart: &httpserver.CartHTTP{
			Carts:       carts,
			Catalog:     catalogSvc,
			CheckoutSvc: checkoutSvc,
			SessionTTL:  cartTTL,
		},
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Println("storefront stopped")
}

// openStore picks the storage backend: a relational store when DATABASE_URL
// is set, the seeded in-memory store otherwise.
func openStore(cfg config.Config) (storage.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		store, err := storage.NewSeededMemStore()
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	store, err := storage.NewGormStore(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := store.EnsureSeed(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}
