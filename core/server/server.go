package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"today-scheduler/core/cache"
	"today-scheduler/core/config"
	"today-scheduler/core/database"
	"today-scheduler/core/logger"
	"today-scheduler/core/middleware"
	"today-scheduler/core/queue"
	"today-scheduler/modules/auth"
	"today-scheduler/modules/calendar"
	"today-scheduler/modules/event"
	"today-scheduler/modules/notification"
	notificationService "today-scheduler/modules/notification/service"
)

const shutdownTimeout = 10 * time.Second

// Run wires every module, starts the HTTP server and the background worker,
// and blocks until the process is asked to stop.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	q := queue.NewQueue(cfg.Redis)
	defer q.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware()

	authService := auth.Init(e, db)
	gateway := calendar.Init()
	sink, notifService := notification.Init(e, db, redisCache, q, mw)
	eventService := event.Init(e, db, redisCache, mw, authService, gateway, sink)

	worker := notificationService.NewWorker(notifService, eventService, redisCache)
	workerSrv := queue.NewServer(cfg.Redis)
	workerSrv.Mux.HandleFunc(notificationService.TaskFreeSlots, worker.HandleFreeSlots)
	if err := workerSrv.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("Server:Stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")
	workerSrv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("Server:Stopped:Clean")
	return nil
}
