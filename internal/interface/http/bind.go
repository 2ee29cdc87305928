package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// bindJSON decodes and validates the body. On failure it records a
// validation error for ErrorHandler and reports false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperror.Validation(validation.Message(err), validation.ToDetails(err)))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(apperror.Validation(validation.Message(err), validation.ToDetails(err)))
		return false
	}
	return true
}
