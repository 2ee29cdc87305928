package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// ErrorHandler turns the last error pushed with c.Error into a response.
// It is the only place that decides status codes for failures; anything that
// is not an *apperror.Error is logged and masked as a 500.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		e := apperror.From(err)

		switch e.Kind {
		case apperror.KindValidation, apperror.KindConflict, apperror.KindUnauthorized, apperror.KindNotFound:
			response.Error(c, e.Kind.Status(), e.Message, e.Details)
		case apperror.KindInternal:
			helpers.LogError(logger, "unhandled error", err, logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			})
			response.Error(c, e.Kind.Status(), "Something went wrong", nil)
		default:
			response.Error(c, e.Kind.Status(), "Something went wrong", nil)
		}
	}
}

// NotFound is the fallback for unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Route not found"))
	}
}
