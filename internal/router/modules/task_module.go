package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// TaskModule mounts /tasks; every route requires a bearer token.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager, rdb *redis.Client) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/tasks")
	g.Use(middleware.Auth(m.JWT))
	g.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/:id", m.Handler.Get)
		g.PATCH("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.PATCH("/:id/toggle", m.Handler.Toggle)
	}
}
