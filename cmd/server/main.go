package main // Entry point package

import (
	"context"
	"errors"
	"log" // used only until the zap logger exists
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Its-SakshamR/Bus-Reservation/internal/config" // Internal config loader
	"github.com/Its-SakshamR/Bus-Reservation/internal/database"
	"github.com/Its-SakshamR/Bus-Reservation/internal/handler"
	"github.com/Its-SakshamR/Bus-Reservation/internal/logger"
	"github.com/Its-SakshamR/Bus-Reservation/internal/middleware"
	"github.com/Its-SakshamR/Bus-Reservation/internal/queue"
	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
	"github.com/Its-SakshamR/Bus-Reservation/internal/router" // Internal router setup
	"github.com/Its-SakshamR/Bus-Reservation/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		mctx, cancel := context.WithTimeout(ctx, time.Minute)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			zl.Fatal("migrations failed", zap.Error(err))
		}
	}

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	switch {
	case err != nil:
		zl.Warn("redis unavailable; cache and rate limit disabled", zap.Error(err))
	case rdb == nil:
		zl.Info("redis disabled")
	default:
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	routes := repository.NewRouteRepo(db)
	buses := repository.NewBusRepo(db)
	seats := repository.NewSeatRepo(db)
	tickets := repository.NewTicketRepo(db)

	// Ticket events.  The interface stays nil when publishing is off.
	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		pub := queue.NewPublisher(cfg.RabbitURL, zl.Named("publisher"))
		defer pub.Close()
		events = pub
		if cfg.RunConsumer {
			go func() {
				if err := queue.StartTicketConsumer(ctx, cfg.RabbitURL, cfg.TicketLogPath, zl); err != nil && !errors.Is(err, context.Canceled) {
					zl.Error("ticket consumer stopped", zap.Error(err))
				}
			}()
		}
	} else {
		zl.Info("rabbitmq disabled; ticket events are not published")
	}

	// Services
	accounts, err := service.NewAccountService(users, cfg.BcryptCost, cfg.OperatorSignup, zl)
	if err != nil {
		zl.Fatal("account service", zap.Error(err))
	}
	engine := service.NewReservationEngine(db, buses, users, seats, tickets, events, zl)
	query := service.NewQueryFacade(buses, seats, tickets)
	catalog := service.NewCatalogService(db, routes, buses, seats, zl)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(zl))
	e.Use(echomw.Recover())

	catalogHandler := handler.NewCatalogHandler(catalog, query, middleware.NewCachePurger(cacheCfg, rdb), zl)
	router.RegisterRoutes(e, &handler.HealthHandler{DB: db})
	authHandler := handler.NewAuthHandler(cfg, accounts, tokens)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, catalogHandler, middleware.NewRedisCache(cacheCfg, rdb, zl))
	router.RegisterTickets(e, handler.NewTicketHandler(engine, query), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl))
	router.RegisterOperator(e, catalogHandler, authHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
