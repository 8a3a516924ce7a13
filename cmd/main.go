package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookhive/order-service/internal/app"
	"github.com/bookhive/order-service/internal/config"
	"github.com/bookhive/order-service/internal/events"
	"github.com/bookhive/order-service/internal/handler"
	"github.com/bookhive/order-service/internal/jobs"
	"github.com/bookhive/order-service/internal/lock"
	"github.com/bookhive/order-service/internal/postgres"
	"github.com/bookhive/order-service/internal/repo"
	"github.com/bookhive/order-service/internal/service"
	"github.com/bookhive/order-service/pkg/cache"
	"github.com/bookhive/order-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Order Service API
// @version         1.0
// @description     Order admission and lifecycle HTTP API
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	orderCache.StartJanitor(ctx)

	publisher := events.NewPublisher(logger, conf.Kafka)
	defer publisher.Close()

	validator := service.NewOrderValidator(conf.Orders.AllowedDeliveryCountries)
	orderService := service.NewOrderService(logger, txManager, orderRepo, publisher, validator, orderCache)

	schedulerLock := lock.NewPostgresLock(db)
	newOrdersJob := jobs.NewProcessNewOrdersJob(orderService, schedulerLock, conf.Jobs, logger)

	httpHandler := handler.NewHTTPHandler(logger, orderService)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(httpHandler)
	application.SetJobs(newOrdersJob)

	panicIfErr("application failed", application.Run(ctx))
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
