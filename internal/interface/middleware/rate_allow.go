package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/apperror"
)

// AllowPrivateIP approves loopback and private-range clients
// (10/8, 172.16/12, 192.168/16).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := ClientIP(c)
		parsed := net.ParseIP(ip)
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// Only lets requests through when allow approves them and answers 404
// otherwise, so the route looks absent.
func Only(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			_ = c.Error(apperror.NotFound("Route not found"))
			c.Abort()
			return
		}
		c.Next()
	}
}
