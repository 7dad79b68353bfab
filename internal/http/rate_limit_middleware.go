package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petmatch/internal/service"
)

// RateLimitMiddleware limita por subject del token, o por IP si la ruta es publica.
// Debe ir despues de JWTAuthMiddleware para ver los claims.
func RateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), rateLimitKey(c)) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok && claims.Subject != "" {
		return "sub:" + claims.Subject
	}
	return "ip:" + c.ClientIP()
}
