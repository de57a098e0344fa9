package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/irn-edu/timetable-api/api/swagger"
	"github.com/irn-edu/timetable-api/internal/handler"
	"github.com/irn-edu/timetable-api/internal/middleware"
	"github.com/irn-edu/timetable-api/internal/repository"
	"github.com/irn-edu/timetable-api/internal/service"
	"github.com/irn-edu/timetable-api/pkg/cache"
	"github.com/irn-edu/timetable-api/pkg/config"
	"github.com/irn-edu/timetable-api/pkg/database"
	"github.com/irn-edu/timetable-api/pkg/logger"
	corsmiddleware "github.com/irn-edu/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/irn-edu/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Greedy course timetabling over uploaded CSV tables
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	var store service.ResultStore = service.NewMemoryResultStore()
	if cfg.Scheduler.ResultStore == config.StoreRedis {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		store = service.NewRedisResultStore(redisClient)
	}

	var recorder *service.RunRecorder
	var historySvc *service.RunHistoryService
	var db *sqlx.DB
	if cfg.History.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect postgres", "error", err)
		}
		defer db.Close()

		runs := repository.NewRunRepository(db)
		recorder = service.NewRunRecorder(runs, logr)
		recorder.Start(context.Background())
		defer recorder.Stop()
		historySvc = service.NewRunHistoryService(runs)
	}

	scheduleSvc := service.NewScheduleService(store, metrics, recorder, logr, service.ScheduleServiceConfig{
		ResultTTL: cfg.Scheduler.ResultTTL,
	})

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, cfg.Scheduler.MaxUploadBytes)
	metricsHandler := handler.NewMetricsHandler(metrics, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Auth(cfg.JWT.Secret))
	{
		api.POST("/schedule", scheduleHandler.Run)
		api.GET("/schedule/:token", scheduleHandler.Get)
		api.GET("/schedule/:token/download", scheduleHandler.Download)
		if historySvc != nil {
			historyHandler := handler.NewHistoryHandler(historySvc)
			api.GET("/runs", historyHandler.List)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "result_store", cfg.Scheduler.ResultStore)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
