package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/lock"
	"github.com/iliyamo/hotel-reservation/internal/logger"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/storage/memory"
)

const shutdownTimeout = 10 * time.Second

// backend is what the server needs from a store driver.
type backend interface {
	handler.RoomCatalog
	booking.Store
	Ping(ctx context.Context) error
}

// mysqlBackend joins the two repositories over one pool.
type mysqlBackend struct {
	*repository.RoomRepo
	*repository.BookingRepo
	db *sql.DB
}

func (b mysqlBackend) Ping(ctx context.Context) error { return b.db.PingContext(ctx) }

func main() {
	cfg := config.Load() // Load environment config
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.WithFields(logrus.Fields{"env": cfg.Env, "store": cfg.StoreDriver}).Info("starting hotel reservation server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	ready := map[string]handler.Pinger{"store": store}

	// Redis is optional unless it backs the locks.
	lockCfg := config.LoadLockConfig()
	rdb := config.NewRedisClient(config.LoadRedisOptions())
	if rdb != nil {
		defer rdb.Close()
		ready["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	locker := newLocker(lockCfg, rdb, log)

	var events booking.EventPublisher
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, log)
		defer pub.Close()
		events = pub

		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.AuditDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("audit consumer stopped")
			}
		}()
	} else {
		log.Info("AMQP_URL not set; lifecycle events disabled")
	}

	mgr := booking.New(booking.Config{LockWait: lockCfg.Wait}, log, store, store, locker, events)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.AccessLog(log))
	router.Register(e, router.Deps{
		Rooms:     handler.NewRoomHandler(store),
		Bookings:  handler.NewBookingHandler(mgr, store),
		Admin:     handler.NewAdminHandler(mgr, store),
		Ready:     ready,
		JWTSecret: cfg.JWTSecret,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		Log:       log,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (backend, func()) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using in-memory store; bookings are lost on restart")
		s := memory.New(memory.Config{})
		seedDemoRooms(s)
		return s, func() {}
	}

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if cfg.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.WithError(err).Fatal("schema bootstrap failed")
		}
	}
	b := mysqlBackend{RoomRepo: repository.NewRoomRepo(db), BookingRepo: repository.NewBookingRepo(db), db: db}
	return b, func() { _ = db.Close() }
}

func newLocker(cfg config.LockConfig, rdb *redis.Client, log *logrus.Logger) booking.Locker {
	if cfg.Backend != config.LockRedis {
		log.Info("using in-process locks; run a single instance")
		return lock.NewKeyed()
	}
	if rdb == nil {
		log.Fatal("LOCK_BACKEND=redis but Redis is unreachable")
	}
	return lock.NewRedis(rdb, lock.RedisConfig{Prefix: cfg.Prefix, TTL: cfg.TTL, Retry: cfg.Retry}, log)
}

func seedDemoRooms(s *memory.Store) {
	rooms := []model.Room{
		{ID: 1, RoomTypeID: 1, RoomTypeName: "Single", RoomNumber: "101", Floor: 1, BasePriceCents: 8000, HasRate: true, IsAvailable: true},
		{ID: 2, RoomTypeID: 2, RoomTypeName: "Double", RoomNumber: "102", Floor: 1, BasePriceCents: 12000, HasRate: true, IsAvailable: true},
		{ID: 3, RoomTypeID: 3, RoomTypeName: "Suite", RoomNumber: "201", Floor: 2, BasePriceCents: 30000, HasRate: true, IsAvailable: true},
	}
	for _, r := range rooms {
		s.AddRoom(r)
	}
}
