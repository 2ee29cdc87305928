package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type TaskHandler struct {
	Svc *application.TaskService
}

func NewTaskHandler(svc *application.TaskService) *TaskHandler {
	return &TaskHandler{Svc: svc}
}

type listTasksQuery struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	Status string `form:"status" binding:"omitempty,oneof=true false"`
	Search string `form:"search"`
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Status      bool    `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *bool   `json:"status"`
}

// userID is set by middleware.Auth on every task route.
func userID(c *gin.Context) (string, bool) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("Unauthorized"))
		return "", false
	}
	return id.ID, true
}

// atoiOr parses s, returning def when s is empty or not a number.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// List GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var q listTasksQuery
	if !bindQuery(c, &q) {
		return
	}
	in := application.ListTasksInput{
		Page:   atoiOr(q.Page, 1),
		Limit:  atoiOr(q.Limit, application.DefaultPageLimit),
		Search: q.Search,
	}
	if q.Status != "" {
		done := q.Status == "true"
		in.Status = &done
	}
	page, err := h.Svc.List(c.Request.Context(), uid, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), uid, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, t)
}

// Update PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), entity.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

// Toggle PATCH /api/tasks/:id/toggle
func (h *TaskHandler) Toggle(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Toggle(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
