package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/michaelkatsweb/Heronix-Application-sub012/api/swagger"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/handler"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/optimizer"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/repository"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/cache"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/database"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/logger"
	corsmiddleware "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/middleware/cors"
	reqidmiddleware "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/middleware/requestid"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/storage"
)

// @title Heronix Scheduling API
// @version 1.0.0
// @description School administration backend with optimizer-driven schedule generation
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, true)
	}

	// repositories
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	campusRepo := repository.NewCampusRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// optimizer workflow
	optimizerClient := optimizer.NewClient(cfg.Optimizer, logr)
	exportSvc := service.NewExportService(studentRepo, teacherRepo, courseRepo, roomRepo, scheduleRepo, optimizerClient, logr)
	importSvc := service.NewImportService(optimizerClient, scheduleRepo, cacheSvc, logr)
	modeSvc := service.NewModeService(optimizerClient, cfg.Optimizer.Enabled, logr)
	orchestrationSvc := service.NewOrchestrationService(exportSvc, importSvc, optimizerClient, scheduleRepo, metrics, cfg.Optimizer, logr)

	// entity services
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, cacheSvc, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, campusRepo, validate, logr)
	campusSvc := service.NewCampusService(campusRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	searchSvc := service.NewSearchService(searchRepo, logr)
	var dashboardSvc *service.DashboardService
	if cfg.Dashboard.Enabled {
		dashboardSvc = service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	}

	// report pipeline
	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(reportRepo, scheduleRepo, fileStore, signer,
			cfg.APIPrefix, cfg.Reports.WorkerConcurrency, cfg.Reports.WorkerRetries, logr)
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handlers := handler.Handlers{
		Students:  handler.NewStudentHandler(studentSvc),
		Teachers:  handler.NewTeacherHandler(teacherSvc),
		Courses:   handler.NewCourseHandler(courseSvc),
		Rooms:     handler.NewRoomHandler(roomSvc),
		Campuses:  handler.NewCampusHandler(campusSvc),
		Schedules: handler.NewScheduleHandler(scheduleSvc),
		Optimizer: handler.NewOptimizerHandler(orchestrationSvc, modeSvc),
		Reports:   handler.NewReportHandler(reportSvc),
		Search:    handler.NewSearchHandler(searchSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, tokenSvc, metrics)

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
