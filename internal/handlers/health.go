package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/testgen/api/internal/cache"
	"github.com/testgen/api/internal/eventbus"
	"github.com/testgen/api/internal/llm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	provider llm.Provider
	cache    cache.Cache
	events   eventbus.Publisher
}

// NewHealthHandler creates a new health handler; nil cache or events mean
// the dependency is not configured
func NewHealthHandler(provider llm.Provider, c cache.Cache, events eventbus.Publisher) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		cache:    c,
		events:   events,
	}
}

// DeepHealthResponse represents the dependency health response
type DeepHealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health returns a constant status and does no work
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// DeepHealth returns health status with dependency checks
//
//	@Summary	Dependency health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	DeepHealthResponse
//	@Failure	503	{object}	DeepHealthResponse
//	@Router		/health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := make(map[string]string)
	allHealthy := true

	// Completion service credentials
	if h.provider != nil && h.provider.Configured() {
		deps[h.provider.Name()] = "configured"
	} else {
		name := "llm"
		if h.provider != nil {
			name = h.provider.Name()
		}
		deps[name] = "unhealthy: api key not set"
		allHealthy = false
	}

	// Redis cache
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			deps["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			deps["redis"] = "healthy"
		}
	} else {
		deps["redis"] = "not configured"
	}

	// NATS event bus
	if h.events != nil {
		if h.events.Connected() {
			deps["nats"] = "healthy"
		} else {
			deps["nats"] = "unhealthy: disconnected"
			allHealthy = false
		}
	} else {
		deps["nats"] = "not configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, DeepHealthResponse{
		Status:       status,
		Dependencies: deps,
	})
}
