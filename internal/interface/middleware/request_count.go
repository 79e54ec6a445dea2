package middleware

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

var requestCount = expvar.NewInt("http_requests_total")

// RequestCounter increments a non-authoritative expvar counter per request.
// Diagnostics only; the value is per-process and resets on restart.
func RequestCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestCount.Add(1)
		c.Next()
	}
}
