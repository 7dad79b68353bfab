package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker es cualquier dependencia que puede reportar si esta disponible.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc adapta una funcion a HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

type namedCheck struct {
	name    string
	checker HealthChecker
}

// HealthHandler responde GET /healthz revisando base de datos y cache.
type HealthHandler struct {
	logger *zap.Logger
	checks []namedCheck
}

func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{logger: logger}
}

// With agrega un chequeo. Los nil se ignoran.
func (h *HealthHandler) With(name string, checker HealthChecker) *HealthHandler {
	if checker != nil {
		h.checks = append(h.checks, namedCheck{name: name, checker: checker})
	}
	return h
}

// Check maneja GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for _, check := range h.checks {
		if err := check.checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", check.name), zap.Error(err))
			results[check.name] = "error"
			healthy = false
			continue
		}
		results[check.name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": results})
}
