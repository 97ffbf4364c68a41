package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/proyectos-api/internal/handler"
	"github.com/edutrack/proyectos-api/internal/middleware"
	"github.com/edutrack/proyectos-api/internal/repository"
	"github.com/edutrack/proyectos-api/internal/service"
	"github.com/edutrack/proyectos-api/pkg/config"
	"github.com/edutrack/proyectos-api/pkg/database"
	"github.com/edutrack/proyectos-api/pkg/logger"
	corsmiddleware "github.com/edutrack/proyectos-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edutrack/proyectos-api/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	auditRepo := repository.NewAuditRepository(db)
	teacherRepo := repository.NewTeacherRepository(db, auditRepo)
	projectRepo := repository.NewProjectRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	projectSvc := service.NewProjectService(projectRepo, teacherRepo, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, cfg.Exports.MaxRows, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, metricsSvc, logr)

	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	auth := middleware.JWT(cfg.JWT.Secret)
	api := r.Group(cfg.APIPrefix)

	teachers := api.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.POST("", auth, teacherHandler.Create)
		teachers.PUT("/:id", auth, teacherHandler.Update)
		teachers.DELETE("/:id", auth, teacherHandler.Delete)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.POST("", auth, projectHandler.Create)
		projects.PUT("/:id", auth, projectHandler.Update)
		projects.DELETE("/:id", auth, projectHandler.Delete)
	}

	audits := api.Group("/audits", auth)
	{
		audits.GET("/updates", auditHandler.ListUpdates)
		audits.GET("/deletes", auditHandler.ListDeletes)
		if cfg.Exports.Enabled {
			audits.GET("/export", auditHandler.Export)
		}
	}

	if cfg.Analytics.Enabled {
		analytics := api.Group("/analytics")
		{
			analytics.GET("/teachers/:id/average-budget", analyticsHandler.AverageBudget)
			analytics.GET("/projects/:id/cost-per-hour", analyticsHandler.CostPerHour)
			analytics.GET("/projects/:id/status", analyticsHandler.Status)
			analytics.GET("/employment-types/count", analyticsHandler.CountByEmploymentType)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
