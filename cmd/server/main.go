package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/booking"
	"github.com/iliyamo/cinema-seat-booking/internal/catalog"
	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/database"
	"github.com/iliyamo/cinema-seat-booking/internal/handler"
	"github.com/iliyamo/cinema-seat-booking/internal/ledger"
	"github.com/iliyamo/cinema-seat-booking/internal/logger"
	"github.com/iliyamo/cinema-seat-booking/internal/middleware"
	"github.com/iliyamo/cinema-seat-booking/internal/repository"
	"github.com/iliyamo/cinema-seat-booking/internal/router"
	queue_publisher "github.com/iliyamo/cinema-seat-booking/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// orderStore is the full order store contract both backends satisfy.
type orderStore interface {
	ledger.OrderStore
	booking.OrderReader
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env, "cinema-api", cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	checks := map[string]handler.Check{}

	var rdb *redis.Client
	if cfg.NeedsRedis() || os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_HOST") != "" {
		rdb = config.NewRedisClient()
		if rdb == nil && cfg.NeedsRedis() {
			return errors.New("redis unreachable but LOCK_BACKEND or SESSION_BACKEND requires it")
		}
		if rdb != nil {
			defer rdb.Close()
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		} else {
			log.Warn("redis unreachable; rate limiting and response cache disabled")
		}
	}

	var orders orderStore
	switch cfg.StoreDriver {
	case config.BackendMySQL:
		db, err := database.Open(cfg)
		if err != nil {
			return fmt.Errorf("mysql: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(context.Background(), db); err != nil {
			return err
		}
		checks["mysql"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		orders = repository.NewOrderRepo(db)
		logStore(log, cfg, db)
	default:
		orders = repository.NewMemoryOrderRepo()
		logStore(log, cfg, nil)
	}

	var locker ledger.Locker = ledger.NewKeyedMutex()
	if cfg.LockBackend == config.BackendRedis {
		locker = ledger.NewRedisLocker(rdb, "lock", cfg.ClaimLockWait)
	}

	var pending booking.PendingStore = repository.NewMemoryPendingRepo(nil)
	if cfg.SessionBackend == config.BackendRedis {
		pending = repository.NewRedisPendingRepo(rdb, "pending")
	}

	var events booking.EventPublisher = queue_publisher.Noop{}
	if cfg.EventsEnabled {
		events = queue_publisher.NewPublisher(cfg.AMQPURL, log)
	}

	svc := booking.New(
		catalog.NewDefault(),
		ledger.New(orders, locker, log.Named("ledger")),
		orders,
		pending,
		log.Named("booking"),
		booking.WithPendingTTL(cfg.PendingTTL),
		booking.WithEvents(events),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log.Named("http")))

	router.RegisterRoutes(e, &handler.ReadyHandler{Checks: checks})
	router.RegisterCatalog(e, handler.NewCatalogHandler(svc, log), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(svc, log), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.Named("ratelimit")))
	router.RegisterOrders(e, handler.NewOrderHandler(svc, log), cfg.JWTSecret)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

func logStore(log *zap.Logger, cfg config.Config, db *sql.DB) {
	fields := []zap.Field{
		zap.String("store", cfg.StoreDriver),
		zap.String("locks", cfg.LockBackend),
		zap.String("sessions", cfg.SessionBackend),
		zap.Duration("pending_ttl", cfg.PendingTTL),
		zap.Bool("events", cfg.EventsEnabled),
	}
	if db != nil {
		fields = append(fields, zap.Int("db_max_open", db.Stats().MaxOpenConnections))
	}
	log.Info("booking backends", fields...)
}
