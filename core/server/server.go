package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-calendar-api/core/cache"
	"social-calendar-api/core/config"
	"social-calendar-api/core/constants"
	"social-calendar-api/core/database"
	"social-calendar-api/core/logger"
	"social-calendar-api/core/middleware"
	"social-calendar-api/core/validator"
	"social-calendar-api/modules/availability"
	"social-calendar-api/modules/calendar"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server and the background worker and blocks until
// SIGINT/SIGTERM, then shuts both down.
func Run() error {
	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.JWT.Secret == "" {
		if !cfg.IsLocal() {
			return stderrors.New("JWT_SECRET is required outside local env")
		}
		logger.Warn("Server:Run:EmptyJWTSecret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	db, err := database.InitDB(initCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(initCtx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Warn("Server:Run:InvalidTimezone", "timezone", cfg.App.Timezone, "error", err)
		loc, _ = time.LoadLocation(constants.DefaultTimezone)
		if loc == nil {
			loc = time.UTC
		}
	}

	e := newEcho()
	mw := middleware.NewMiddleware(cfg.JWT.Secret)
	e.Use(mw.RequestID())
	e.Use(requestLogger())

	calendarService := calendar.Init(e, db, mw, cfg.GoogleAPI)

	opts := availability.Options{
		DB:       db,
		Cache:    redisCache,
		Importer: calendarService,
		Config:   cfg.Scheduling,
		Location: loc,
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	var worker *asynq.Server
	if cfg.Worker.Enabled {
		client := asynq.NewClient(redisOpt)
		defer client.Close()
		opts.Tasks = client
	}

	warmUp := availability.Init(e, mw, opts)

	if cfg.Worker.Enabled {
		worker = newWorker(redisOpt, cfg.Worker)
		mux := asynq.NewServeMux()
		warmUp.Register(mux)
		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("start worker: %w", err)
		}
		logger.Info("Server:Run:WorkerStarted", "concurrency", cfg.Worker.Concurrency)
	}

	go func() {
		logger.Info("Server:Run:Listening", "address", cfg.Address(), "env", cfg.App.Env)
		if err := e.Start(cfg.Address()); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Server:Run:ListenFailed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Server:Run:ShuttingDown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancelShutdown()

	if worker != nil {
		worker.Shutdown()
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.ContextTimeout(constants.DefaultRequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func requestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			kv := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", c.Get(constants.ContextRequestID),
			}
			if v.Error != nil {
				logger.Warn("HTTP:Request", append(kv, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", kv...)
			return nil
		},
	})
}
