package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/testgen/api/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(2, 10*time.Second)
	cb.now = func() time.Time { return now }

	var transitions []string
	cb.OnStateChange = func(from, to CircuitState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	assert.True(t, cb.Allow())
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	now = now.Add(11 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(1, time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(2 * time.Second)
	require.True(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenAllowsSingleTrial(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(1, time.Second)
	cb.SuccessThreshold = 2
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(2 * time.Second)

	require.True(t, cb.Allow())
	assert.False(t, cb.Allow(), "second request while the trial is running")

	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.State())
	require.True(t, cb.Allow(), "next trial after the first one finished")
	assert.False(t, cb.Allow())

	cb.Release()
	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.True(t, cb.Allow())
	assert.True(t, cb.Allow())
}

func TestCircuitBreakerMiddleware_ClientErrorReleasesTrial(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(1, time.Second)
	cb.now = func() time.Time { return now }
	cb.RecordFailure()
	now = now.Add(2 * time.Second)

	r := gin.New()
	r.Use(CircuitBreakerMiddleware(cb))
	r.POST("/x", func(c *gin.Context) { UnprocessableEntity(c, "bad input") })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}
	assert.Equal(t, CircuitHalfOpen, cb.State())
}

func TestNewCircuitBreaker_Disabled(t *testing.T) {
	assert.Nil(t, NewCircuitBreaker(0, time.Second))
}

func TestCircuitBreakerMiddleware(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	status := http.StatusInternalServerError

	r := gin.New()
	r.Use(CircuitBreakerMiddleware(cb))
	r.POST("/x", func(c *gin.Context) { RespondError(c, status, "boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"detail"`)
}

func TestCircuitBreakerMiddleware_NilPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(CircuitBreakerMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	var fromCtx, fromGin string

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		fromGin = GetRequestID(c)
		fromCtx = telemetry.RequestIDFromContext(c.Request.Context())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", fromGin)
	assert.Equal(t, "abc-123", fromCtx)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusUnprocessableEntity) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "client error", entries[1].Message)
	assert.Equal(t, "request failed", entries[2].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "/ok", entries[0].ContextMap()["route"])
	assert.Equal(t, "/fail", entries[2].ContextMap()["route"])
	assert.NotContains(t, entries[0].ContextMap(), "path")
}

func TestRequestLogger_RouteTemplate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/docs/*any", func(c *gin.Context) { c.String(http.StatusOK, "hello") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/docs/*any", fields["route"])
	assert.EqualValues(t, 5, fields["bytes_out"])

	fields = entries[1].ContextMap()
	assert.Equal(t, "unmatched", fields["route"])
	assert.Equal(t, "/nowhere", fields["path"])
	assert.Equal(t, "client error", entries[1].Message)
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
}
