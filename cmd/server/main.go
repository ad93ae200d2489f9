package main

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/internal/infrastructure/boltdb"
	"github.com/fastygo/tasktracker/internal/infrastructure/metrics"
	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/tasktracker/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/tasktracker/internal/infrastructure/redis"
	"github.com/fastygo/tasktracker/internal/middleware"
	"github.com/fastygo/tasktracker/internal/router"
	"github.com/fastygo/tasktracker/internal/services"
	"github.com/fastygo/tasktracker/internal/services/lifecycle"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/pkg/sessioncookie"
	"github.com/fastygo/tasktracker/repository"
	boltRepo "github.com/fastygo/tasktracker/repository/bolt"
	"github.com/fastygo/tasktracker/repository/memory"
	pgRepo "github.com/fastygo/tasktracker/repository/postgres"
	redisRepo "github.com/fastygo/tasktracker/repository/redis"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	sessionRepo, err := openSessionStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("session store unavailable", zap.String("store", cfg.Session.Store), zap.Error(err))
	}

	collector := metrics.New(cfg.AppName)

	if sweepable, ok := sessionRepo.(repository.SessionSweeper); ok {
		sweeper, err := services.NewSessionSweeper(sweepable, collector, zapLogger, services.SweeperConfig{
			Store:    cfg.Session.Store,
			Interval: cfg.Session.SweepInterval,
		})
		if err != nil {
			zapLogger.Fatal("session sweeper setup failed", zap.Error(err))
		}
		sweeper.Start()
		manager.Register("session_sweeper", func(ctx context.Context) error {
			sweeper.Stop(ctx)
			return nil
		})
	}

	taskUseCase := taskUC.New(memory.NewTaskRepository(), zapLogger)
	authUseCase := authUC.New(sessionRepo, cfg.Auth.Password, cfg.Session.TTL, zapLogger)

	mon := monitor.New(sessionRepo, cfg.Session.Store, taskUseCase, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	cookies := sessioncookie.New(cfg.Session.CookieName, cfg.Session.Secret)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, cookies, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	var observe router.Middleware
	if cfg.HTTP.EnableMetrics {
		handlers.Metrics = collector.Handler()
		observe = collector.Middleware
	}

	handler := router.New(handlers,
		middleware.RequireSession(zapLogger),
		middleware.AccessLog(zapLogger),
		observe,
		middleware.RateLimit(middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)),
		middleware.Sessions(cookies, authUseCase, ctxAdapter, zapLogger),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		zapLogger.Fatal("failed to bind listener", zap.String("address", cfg.Address()), zap.Error(err))
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", ln.Addr().String()),
			zap.String("session_store", cfg.Session.Store))
		if err := server.Serve(ln); err != nil {
			zapLogger.Error("server stopped serving", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	manager.WaitForSignal(appCtx)

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openSessionStore connects the configured session backend and registers its
// shutdown hook.
func openSessionStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.SessionRepository, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		manager.Register("redis", func(ctx context.Context) error {
			return client.Close()
		})
		return redisRepo.NewSessionRepository(client, cfg.Session.TTL), nil

	case config.SessionStoreBolt:
		db, err := boltdb.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, err
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return db.Close()
		})
		repo, err := boltRepo.NewSessionRepository(db, cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case config.SessionStorePostgres:
		pool, err := pgInfra.Connect(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		if err := pgInfra.Migrate(cfg.Database, cfg.Migrations, zapLogger); err != nil {
			return nil, err
		}
		return pgRepo.NewSessionRepository(pool, cfg.Session.TTL), nil

	default:
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	}
}
