package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupcal/core/cache"
	"groupcal/core/config"
	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/core/middleware"
	"groupcal/core/queue"
	"groupcal/modules/auth"
	"groupcal/modules/availability"
	"groupcal/modules/calendarsync"
	calendarsyncService "groupcal/modules/calendarsync/service"
	"groupcal/modules/event"
	"groupcal/modules/group"
	"groupcal/modules/notification"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server and the background sync workers, and blocks
// until an interrupt arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache, err := cache.New()
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer redisCache.Close()

	queueClient := queue.NewClient()
	defer queueClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(redisCache)

	auth.Init(e, db, redisCache, mw)
	group.Init(e, db, mw)
	notificationSvc := notification.Init(e, db, mw)
	event.Init(e, db, notificationSvc, mw)
	availability.Init(e, db, mw)
	syncSvc := calendarsync.Init(e, db, redisCache, queueClient, notificationSvc, mw)

	worker, scheduler := startWorkers(syncSvc)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", err)
	}

	scheduler.Shutdown()
	worker.Shutdown()

	return nil
}

// startWorkers runs the asynq worker pool and the periodic scheduler in
// the same process as the API.
func startWorkers(syncSvc calendarsyncService.CalendarSyncServiceInterface) (*asynq.Server, *asynq.Scheduler) {
	worker := queue.NewServer()
	mux := asynq.NewServeMux()
	calendarsyncService.NewTaskHandler(syncSvc).Register(mux)

	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("asynq worker stopped", err)
		}
	}()

	scheduler := queue.NewScheduler()
	if _, err := scheduler.Register(queue.SyncAllCronSpec(), queue.NewSyncAllTask()); err != nil {
		logger.Error("register periodic sync", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("asynq scheduler stopped", err)
		}
	}()

	return worker, scheduler
}
