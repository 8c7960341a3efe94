package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/session"
	"github.com/noah-isme/school-portal-api/internal/status"
	"github.com/noah-isme/school-portal-api/internal/upstream"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
)

// @title School Portal API
// @version 0.1.0
// @description Session-backed gateway for the school management portal
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var recordCache *repository.RecordCache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, record cache disabled", "error", err)
		} else {
			recordCache = repository.NewRecordCache(redisClient, logr)
			defer recordCache.Close() //nolint:errcheck
		}
	}

	scale, err := status.ParseScale(cfg.Grades.Scale)
	if err != nil {
		logr.Sugar().Fatalw("invalid grade scale", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	sessionRepo := repository.NewSessionRepository(db)
	store := session.NewStore(sessionRepo, logr)

	client := upstream.NewClient(cfg.Upstream, logr)

	var cacheSvc *service.CacheService
	if recordCache != nil {
		cacheSvc = service.NewCacheService(recordCache, metricsSvc, logr, true, cfg.Cache.TTL)
	}

	authSvc := service.NewAuthService(client, store, validate, logr, service.AuthConfig{
		SessionTTL: cfg.Session.TTL,
		JWTSecret:  cfg.JWT.Secret,
	})
	assignmentSvc := service.NewAssignmentService(client, cacheSvc, metricsSvc, logr)
	attendanceSvc := service.NewAttendanceService(client, cacheSvc, metricsSvc, logr)
	examSvc := service.NewExamService(client, cacheSvc, metricsSvc, logr, scale, cfg.Grades.DefaultPassing)
	timetableSvc := service.NewTimetableService(client, cacheSvc, metricsSvc, logr)
	dashboardSvc := service.NewDashboardService(client, assignmentSvc, attendanceSvc, timetableSvc, metricsSvc, logr)
	exportSvc := service.NewExportService(examSvc, logr, cfg.Exports.Enabled)

	authHandler := handler.NewAuthHandler(authSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	examHandler := handler.NewExamHandler(examSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	navigationHandler := handler.NewNavigationHandler()
	exportHandler := handler.NewExportHandler(exportSvc)

	anyRole := []models.Role{}
	table, err := router.NewTable(
		router.Route{Method: http.MethodPost, Path: "/auth/login", Handler: authHandler.Login},
		router.Route{Method: http.MethodPost, Path: "/auth/forgot-password", Handler: authHandler.ForgotPassword},
		router.Route{Method: http.MethodPost, Path: "/auth/verify-reset-code", Handler: authHandler.VerifyResetCode},
		router.Route{Method: http.MethodPost, Path: "/auth/reset-password", Handler: authHandler.ResetPassword},
		router.Route{Method: http.MethodPost, Path: "/auth/logout", Roles: anyRole, Handler: authHandler.Logout},
		router.Route{Method: http.MethodGet, Path: "/auth/session", Roles: anyRole, Handler: authHandler.Session},
		router.Route{Method: http.MethodGet, Path: router.AdminDashboardPath, Roles: []models.Role{models.RoleAdmin}, Handler: dashboardHandler.Admin},
		router.Route{Method: http.MethodGet, Path: router.TeacherDashboardPath, Roles: []models.Role{models.RoleTeacher}, Handler: dashboardHandler.Teacher},
		router.Route{Method: http.MethodGet, Path: router.StudentDashboardPath, Roles: []models.Role{models.RoleStudent}, Handler: dashboardHandler.Student},
		router.Route{Method: http.MethodGet, Path: router.ParentDashboardPath, Roles: []models.Role{models.RoleParent}, Handler: dashboardHandler.Parent},
		router.Route{Method: http.MethodGet, Path: "/classes/:id/assignments", Roles: anyRole, Handler: assignmentHandler.ListForClass},
		router.Route{Method: http.MethodGet, Path: "/students/:id/attendance", Roles: anyRole, Handler: attendanceHandler.ForStudent},
		router.Route{Method: http.MethodGet, Path: "/exams/:id/results", Roles: anyRole, Handler: examHandler.Results},
		router.Route{Method: http.MethodGet, Path: "/exams/:id/report-card", Roles: []models.Role{models.RoleAdmin, models.RoleTeacher}, Handler: exportHandler.ReportCard},
		router.Route{Method: http.MethodGet, Path: "/classes/:id/timetable", Roles: anyRole, Handler: timetableHandler.ForClass},
		router.Route{Method: http.MethodGet, Path: "/navigation", Roles: anyRole, Handler: navigationHandler.Links},
	)
	if err != nil {
		logr.Sugar().Fatalw("invalid route table", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Session(store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics",
			middleware.BasicAuth(cfg.Metrics.BasicAuthUser, cfg.Metrics.BasicAuthPassHash),
			gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	table.Mount(r, middleware.Guard(metricsSvc))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("portal gateway starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
