package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by UserRepository.Create on a unique violation.
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
