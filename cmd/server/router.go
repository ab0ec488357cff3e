package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/court-compare/docs"
	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/api"
	"github.com/ZanzyTHEbar/court-compare/internal/cache"
	"github.com/ZanzyTHEbar/court-compare/internal/config"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	"github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/frontend"
	"github.com/ZanzyTHEbar/court-compare/internal/middleware"
	"github.com/ZanzyTHEbar/court-compare/internal/monitoring"
	"github.com/ZanzyTHEbar/court-compare/internal/security"
)

type server struct {
	cfg         *config.Config
	builder     *analysis.Builder
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	cache       *cache.Cache
	security    *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
}

func newServer(cfg *config.Config, store *dataset.Store, logger *monitoring.Logger) *server {
	metrics := monitoring.NewMetrics()
	return &server{
		cfg:         cfg,
		builder:     analysis.NewBuilder(store, cfg.BuilderOptions()),
		metrics:     metrics,
		logger:      logger,
		cache:       cache.NewCache(cfg.CacheTTL),
		security:    security.NewSecurityMiddleware(cfg.SecurityConfig(), metrics),
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}
}

func (s *server) close() {
	s.cache.Close()
}

func (s *server) router() (*gin.Engine, error) {
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(s.security.CORS())
	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.CSPMiddleware)
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.RateLimitByIP)
	r.Use(s.security.ValidateQuery)

	r.Use(s.compression.Handler())

	handler := api.NewHandler(s.builder, s.metrics, s.logger, version)
	handler.RegisterRoutes(r, s.cache)

	r.GET("/metrics", func(c *gin.Context) {
		stats := s.metrics.GetStats()
		stats["compression"] = s.compression.GetStats()
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cache.Stats())
	})

	r.DELETE("/cache", func(c *gin.Context) {
		n := s.cache.Clear()
		s.logger.Info("Response cache flushed", "items", n)
		c.JSON(http.StatusOK, gin.H{"cleared": n})
	})

	if s.cfg.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	files, err := frontend.GetDistFS()
	if err != nil {
		return nil, err
	}
	page, err := frontend.NewHandler(files, api.BasePath)
	if err != nil {
		return nil, err
	}
	page.Register(r)

	return r, nil
}
