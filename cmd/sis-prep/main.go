package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsmith-dev/canvas-sis-prep/internal/handler"
	"github.com/hsmith-dev/canvas-sis-prep/internal/middleware"
	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/service"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/config"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/logger"
	corsmiddleware "github.com/hsmith-dev/canvas-sis-prep/pkg/middleware/cors"
	reqidmiddleware "github.com/hsmith-dev/canvas-sis-prep/pkg/middleware/requestid"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/storage"
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(models.DefaultEnrollmentRoles())
	persister := store.NewPersister(cfg.DataFile(), logr)
	persister.Load(st)

	localStorage, err := storage.NewLocalStorage(cfg.ExportDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	catalogSvc := service.NewCatalogService(st, persister, nil, logr)
	sectionSvc := service.NewSectionService(st, persister, nil, logr)
	roleSvc := service.NewRoleService(st, persister, nil, logr)
	importSvc := service.NewImportService(st, persister, logr)
	exportSvc := service.NewExportService(st, localStorage, nil, logr)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService(st)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Section:  handler.NewSectionHandler(sectionSvc),
		Role:     handler.NewRoleHandler(roleSvc),
		Transfer: handler.NewTransferHandler(importSvc, exportSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "data_file", persister.Path())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
