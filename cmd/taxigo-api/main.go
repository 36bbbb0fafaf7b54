// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taxigo/internal/auth"
	"taxigo/internal/config"
	"taxigo/internal/events"
	httptransport "taxigo/internal/http"
	"taxigo/internal/infra"
	"taxigo/internal/logging"
	"taxigo/internal/modules/catalog"
	"taxigo/internal/modules/customer"
	"taxigo/internal/modules/fleet"
	"taxigo/internal/modules/order"
	"taxigo/internal/modules/pricing"
	"taxigo/internal/modules/review"
	"taxigo/internal/payments"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer dbPool.Close()

	if cfg.Migrate {
		if err := infra.ApplyMigrations(ctx, dbPool, "migrations"); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	redisClient := infra.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)

	catalogStore := catalog.NewStore(dbPool)
	catalogCache := catalog.NewCache(redisClient, time.Duration(cfg.CatalogTTLSec)*time.Second)
	catalogSvc := catalog.NewService(catalogStore, catalogCache)

	pricingSvc := pricing.NewService()

	fleetStore := fleet.NewStore(dbPool)
	fleetSvc := fleet.NewService(fleetStore, redisClient)

	customerStore := customer.NewStore(dbPool)
	customerSvc := customer.NewService(customerStore)

	var gateway order.Gateway = payments.NewLocalGateway()
	if cfg.StripeAPIKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeAPIKey)
		logger.Info("stripe gateway enabled")
	}

	var publisher order.Publisher
	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		logger.Info("kafka publisher enabled", zap.String("topic", cfg.KafkaTopic))
	}

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, order.Deps{
		Catalog:   catalogSvc,
		Pricing:   pricingSvc,
		Fleet:     fleetStore,
		Customers: customerStore,
		Gateway:   gateway,
		Publisher: publisher,
		Logger:    logger,
	})

	reviewStore := review.NewStore(dbPool)
	reviewSvc := review.NewService(reviewStore, orderSvc, fleetStore)

	jwtSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiryMin)

	engine := httptransport.NewEngine(httptransport.ServerDeps{
		Catalog:    catalogSvc,
		Pricing:    pricingSvc,
		Fleet:      fleetSvc,
		Customer:   customerSvc,
		Order:      orderSvc,
		Review:     reviewSvc,
		JWT:        jwtSvc,
		Logger:     logger,
		Production: cfg.IsProduction(),
	})

	server := &http.Server{Addr: ":" + cfg.AppPort, Handler: engine}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("taxigo listening", zap.String("port", cfg.AppPort))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
