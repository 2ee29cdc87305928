package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const (
	demoName     = "Demo User"
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

var demoTasks = []struct {
	title string
	desc  string
	done  bool
}{
	{"Set up the project", "Clone the repo and run the migrations", true},
	{"Write the README", "", false},
	{"Review pull requests", "Two are waiting since Monday", false},
	{"Plan next sprint", "", false},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	tasks := pginfra.NewTaskRepository(pool)

	u, err := users.GetByEmail(ctx, demoEmail)
	switch {
	case err == nil:
		logger.WithField("email", demoEmail).Info("demo user already seeded")
		return
	case !errors.Is(err, repo.ErrNotFound):
		logger.Fatalf("failed to look up demo user: %v", err)
	}

	hash, err := helpers.NewHasher(helpers.PasswordCost).Hash(demoPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}
	u = &entity.User{Name: demoName, Email: demoEmail, Password: hash}
	if err := users.Create(ctx, u); err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}

	for _, dt := range demoTasks {
		t := &entity.Task{UserID: u.ID, Title: dt.title, Status: dt.done}
		if dt.desc != "" {
			desc := dt.desc
			t.Description = &desc
		}
		if err := tasks.Create(ctx, t); err != nil {
			logger.Fatalf("failed to seed task %q: %v", dt.title, err)
		}
	}

	logger.WithFields(logrus.Fields{"id": u.ID, "email": demoEmail, "tasks": len(demoTasks)}).Info("seeded demo user")
	fmt.Printf("login with %s / %s\n", demoEmail, demoPassword)
}
