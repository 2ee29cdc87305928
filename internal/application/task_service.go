package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	msgTaskNotFound = "Task not found"
)

// TaskIndex is an optional full-text mirror of the tasks table.
type TaskIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f entity.TaskFilter) ([]string, int, error)
}

type TaskService struct {
	Tasks  repo.TaskRepository
	Index  TaskIndex
	Logger *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, index TaskIndex, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Index: index, Logger: logger}
}

type ListTasksInput struct {
	Page   int
	Limit  int
	Status *bool
	Search string
}

type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type TaskPage struct {
	Data []entity.Task `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      bool
}

func (s *TaskService) List(ctx context.Context, userID string, in ListTasksInput) (*TaskPage, error) {
	f := entity.TaskFilter{
		UserID: userID,
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		Page:   max(in.Page, 1),
		Limit:  min(max(in.Limit, 1), MaxPageLimit),
	}

	tasks, total, err := s.list(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	pages := (total + f.Limit - 1) / f.Limit
	if pages == 0 {
		pages = 1
	}
	return &TaskPage{
		Data: tasks,
		Meta: PageMeta{Page: f.Page, Limit: f.Limit, Total: total, TotalPages: pages},
	}, nil
}

// list prefers the search index for text queries and falls back to the
// database when the index is absent or failing.
func (s *TaskService) list(ctx context.Context, f entity.TaskFilter) ([]entity.Task, int, error) {
	if f.Search != "" && s.Index != nil {
		ids, total, err := s.Index.Search(ctx, f)
		if err == nil {
			tasks, err := s.Tasks.GetByIDs(ctx, f.UserID, ids)
			if err == nil {
				return tasks, total, nil
			}
			return nil, 0, err
		}
		s.log().WithError(err).Warn("task search index unavailable, using database")
	}
	return s.Tasks.List(ctx, f)
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	t, err := s.Tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		UserID:      userID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, apperror.Internal(err)
	}
	s.reindex(ctx, t)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id string, p entity.TaskPatch) (*entity.Task, error) {
	t, err := s.Tasks.Update(ctx, userID, id, p)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	s.reindex(ctx, t)
	return t, nil
}

func (s *TaskService) Toggle(ctx context.Context, userID, id string) (*entity.Task, error) {
	t, err := s.Tasks.Toggle(ctx, userID, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	s.reindex(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Tasks.Delete(ctx, userID, id); err != nil {
		return notFoundOrInternal(err)
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			s.log().WithError(err).WithField("task_id", id).Warn("es delete failed")
		}
	}
	return nil
}

func (s *TaskService) reindex(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.log().WithError(err).WithField("task_id", t.ID).Warn("es index failed")
	}
}

func (s *TaskService) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NotFound(msgTaskNotFound)
	}
	return apperror.Internal(err)
}
