package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) UserRegistered(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockTaskIndex struct {
	mock.Mock
}

func (m *mockTaskIndex) Index(ctx context.Context, t *entity.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskIndex) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTaskIndex) Search(ctx context.Context, f entity.TaskFilter) ([]string, int, error) {
	args := m.Called(ctx, f)
	ids, _ := args.Get(0).([]string)
	return ids, args.Int(1), args.Error(2)
}

// mockRowSessions keeps its slot on the user row, like the postgres store.
type mockRowSessions struct {
	mock.Mock
}

func (m *mockRowSessions) Save(ctx context.Context, userID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

func (m *mockRowSessions) Get(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockRowSessions) Swap(ctx context.Context, userID, prev, next string) (bool, error) {
	args := m.Called(ctx, userID, prev, next)
	return args.Bool(0), args.Error(1)
}

func (m *mockRowSessions) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRowSessions) SlotOnUserRow() {}
