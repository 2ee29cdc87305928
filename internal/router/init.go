package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
)

// Deps is everything the feature modules need. Tests build it by hand with
// in-memory repositories; InitModules builds it from the container.
type Deps struct {
	Auth        *handlers.AuthHandler
	Tasks       *handlers.TaskHandler
	JWT         *helpers.JWTManager
	Redis       *redis.Client // nil disables rate limiting
	AllowBypass middleware.AllowFunc
	Debug       bool
}

func sessionStore(cfg *config.Config) repo.SessionStore {
	if cfg.SessionStore == config.SessionStoreRedis {
		return redisstore.NewSessionStore(container.GetRedis(), cfg.RefreshTTL)
	}
	return pginfra.NewSessionStore(container.GetPGPool())
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	var notifier application.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = mailer.NewQueueNotifier(pub, cfg.AppName)
	}
	authSvc := application.NewAuthService(
		pginfra.NewUserRepository(pool),
		sessionStore(cfg),
		container.GetHasher(),
		container.GetJWT(),
		notifier,
		logger,
	)

	var index application.TaskIndex
	if es := container.GetES(); es != nil {
		index = search.NewTaskIndex(es, cfg.ESTasksIndex)
	}
	taskSvc := application.NewTaskService(pginfra.NewTaskRepository(pool), index, logger)

	deps := Deps{
		Auth:  handlers.NewAuthHandler(authSvc, helpers.NewCookie(cfg.CookieName, cfg.CookieSecure, cfg.RefreshTTL)),
		Tasks: handlers.NewTaskHandler(taskSvc),
		JWT:   container.GetJWT(),
		Debug: cfg.Env == "development",
	}
	if cfg.RateLimitEnabled {
		deps.Redis = container.GetRedis()
	}
	if cfg.Env == "development" {
		deps.AllowBypass = middleware.AllowPrivateIP()
	}
	return deps
}

// Mount adds the feature modules to the registry.
func Mount(r *Registry, d Deps) {
	r.Use(middleware.NoStore())
	r.Add(
		modules.NewAuthModule(d.Auth, d.JWT, d.Redis, d.AllowBypass),
		modules.NewTaskModule(d.Tasks, d.JWT, d.Redis),
	)
	if d.Debug {
		r.Add(modules.NewDebugModule(d.Redis))
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}
