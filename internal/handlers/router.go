package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/testgen/api/internal/middleware"
)

// RouterConfig collects what NewRouter wires together
type RouterConfig struct {
	Logger     *zap.Logger
	Health     *HealthHandler
	Generation *GenerationHandler
	Breaker    *middleware.CircuitBreaker
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", cfg.Health.Health)
	router.GET("/health/deep", cfg.Health.DeepHealth)

	api := router.Group("/api")
	{
		api.GET("/languages", cfg.Generation.ListLanguages)
		api.POST("/estimate-coverage", cfg.Generation.EstimateCoverage)

		generate := api.Group("")
		generate.Use(middleware.CircuitBreakerMiddleware(cfg.Breaker))
		generate.POST("/generate-tests", cfg.Generation.GenerateTests)
	}

	return router
}
