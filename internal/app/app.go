package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/data/db"
	apphttp "github.com/yungbote/cargoledger-backend/internal/http"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/keylock"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
	"github.com/yungbote/cargoledger-backend/internal/realtime/bus"
)

const collectorInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Hub      *realtime.Hub

	store        *db.Service
	bus          bus.Bus
	redis        *goredis.Client
	server       *apphttp.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads config from CONFIG_FILE and the environment, then wires the app.
func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithConfig(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithConfig(cfg Config, log *logger.Logger) (*App, error) {
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set, using the development default")
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s automigrate: %w", store.Driver(), err)
	}
	theDB := store.DB()

	rdb, locker, err := openLocker(cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	metrics := observability.Init(log, cfg.MetricsEnabled)
	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	hub := realtime.NewHub(log)
	var live realtime.Publisher = hub
	var activityBus bus.Bus
	if rdb != nil {
		if activityBus, err = bus.NewRedisBus(rdb, cfg.Redis.Channel, log); err != nil {
			_ = rdb.Close()
			_ = store.Close()
			return nil, fmt.Errorf("activity bus: %w", err)
		}
		live = activityBus
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, metrics, locker, live)
	handlerset := wireHandlers(log, theDB, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Hub:          hub,
		store:        store,
		bus:          activityBus,
		redis:        rdb,
		server:       apphttp.NewServer(router, cfg.Addr()),
		otelShutdown: otelShutdown,
	}, nil
}

func openStore(cfg Config, log *logger.Logger) (*db.Service, error) {
	switch cfg.DBDriver {
	case "postgres":
		s, err := db.NewPostgresService(cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return s, nil
	default:
		s, err := db.NewSQLiteService(cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return s, nil
	}
}

// openLocker returns a Redis-backed rollup lock when REDIS_ADDR is set, otherwise an
// in-process keyed mutex.
func openLocker(cfg Config, log *logger.Logger) (*goredis.Client, keylock.Locker, error) {
	if cfg.Redis.Addr == "" {
		log.Info("Rollup lock: in-process keyed mutex")
		return nil, keylock.NewKeyedMutex(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("Rollup lock: redis", "addr", cfg.Redis.Addr)
	return rdb, keylock.NewRedisLocker(rdb, keylock.RedisLockerConfig{TTL: cfg.LockTTL()}), nil
}

// Start launches the background collectors and, with Redis, the activity forwarder that
// feeds this instance's stream clients.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, collectorInterval)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.redis, collectorInterval)
	if a.bus != nil {
		if err := a.bus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
			return fmt.Errorf("activity forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Addr())
	return a.server.Run()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	a.Log.Sync()
}
