package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/workers"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("Critical: service stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, domain.SystemClock{Location: cfg.Location}, logger)
	if err != nil {
		return err
	}
	defer app.close()

	app.scheduler.RunNow(ctx, app.retention)
	app.scheduler.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Kanso tracker running", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Stop signal received. Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	app.hub.Close()
	app.scheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully.")
	return nil
}

type application struct {
	router    *gin.Engine
	db        *sqlx.DB
	hub       *notify.Hub
	scheduler *workers.Scheduler
	retention *workers.RetentionWorker
	reminder  *workers.ReminderWorker
	closers   []func() error
}

type stores struct {
	habits   domain.HabitRepository
	progress domain.ProgressRepository
	archive  domain.ReportArchive
	db       *sqlx.DB
	redis    *redis.Client
}

func newApplication(ctx context.Context, cfg *config.Config, clock domain.Clock, logger *zap.Logger) (*application, error) {
	app := &application{}

	st, err := openStores(ctx, cfg, logger, app)
	if err != nil {
		app.close()
		return nil, err
	}

	if cfg.RedisEnabled() {
		st.redis = openRedis(ctx, cfg, logger, app)
		if st.redis != nil && st.db != nil {
			st.habits = repository.NewCachedHabitRepository(st.habits, st.redis, logger)
		}
	}

	app.db = st.db

	habitService := services.NewHabitService(st.habits, st.progress, clock)
	progressService := services.NewProgressService(st.progress, st.habits, clock)
	reportService := services.NewReportService(st.habits, st.progress, st.archive, clock)

	app.hub = notify.NewHub(logger)

	app.retention = workers.NewRetentionWorker(progressService, clock, cfg.RetentionDays, logger)
	app.reminder = workers.NewReminderWorker(habitService, app.hub, clock, logger)

	app.scheduler = workers.NewScheduler(logger, cfg.Location)
	if err := app.scheduler.Register(cfg.PurgeSchedule, app.retention); err != nil {
		app.close()
		return nil, err
	}
	if err := app.scheduler.Register(cfg.ReminderSchedule, app.reminder); err != nil {
		app.close()
		return nil, err
	}

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:  adapterHTTP.NewHabitHandler(habitService, progressService, clock),
		ReportHandler: adapterHTTP.NewReportHandler(reportService),
		Notifications: app.hub,
		DB:            st.db,
		Redis:         st.redis,
		StartTime:     time.Now(),
		Logger:        logger,
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateWindow,
	})

	return app, nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger, app *application) (*stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage: data is lost on restart")
		return &stores{
			habits:   repository.NewInMemoryHabitRepository(),
			progress: repository.NewInMemoryProgressRepository(),
			archive:  repository.NewInMemoryReportArchive(),
		}, nil
	}

	logger.Info("Connecting to database...", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.Migrate(ctx, db); err != nil {
		return nil, err
	}
	logger.Info("Database connected and migrated.")

	st := &stores{
		habits:   repository.NewPostgresHabitRepository(db),
		progress: repository.NewPostgresProgressRepository(db),
		archive:  repository.NewPostgresReportArchive(db),
		db:       db,
	}

	return st, nil
}

// openRedis returns nil when Redis cannot be reached; the service then runs
// without the habit cache and limits requests in process.
func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger, app *application) *redis.Client {
	rdb, err := cache.NewRedisClient(ctx, cache.Options{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		return nil
	}
	app.closers = append(app.closers, rdb.Close)
	return rdb
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
