package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"petmatch/internal/metrics"
	"petmatch/internal/service"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RouterDeps agrupa lo que necesita NewRouter. Metrics, Gatherer, JWT y RateLimiter son opcionales.
type RouterDeps struct {
	Logger      *zap.Logger
	Pets        *PetHandler
	Health      *HealthHandler
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	JWT         *service.JWTService
	RateLimiter service.RateLimiter
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(deps.Logger), gin.Recovery())
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	r.GET("/healthz", jsonContentTypeMiddleware(), deps.Health.Check)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	pets := r.Group("/pets", jsonContentTypeMiddleware())
	if deps.JWT.Enabled() {
		pets.Use(JWTAuthMiddleware(deps.JWT))
	}
	if deps.RateLimiter != nil {
		pets.Use(RateLimitMiddleware(deps.RateLimiter))
	}
	pets.GET("/:id/similar", deps.Pets.ListSimilar)
	pets.GET("/:id/similar/:candidateId", deps.Pets.Compare)

	return r
}

// requestIDMiddleware reutiliza X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// metricsMiddleware usa el patron de la ruta para no explotar la cardinalidad.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
