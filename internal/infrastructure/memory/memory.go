// Package memory provides map-backed repositories. They satisfy the same
// contracts as the postgres adapters and back the handler and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// clock hands out strictly increasing timestamps so "newest first" is stable.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	clock   clock
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]*entity.User{}, byEmail: map[string]string{}}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.clock.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SessionStore is a map of user id to refresh-token hash.
type SessionStore struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{slots: map[string]string{}}
}

func (s *SessionStore) Save(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[userID] = hash
	return nil
}

func (s *SessionStore) Get(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[userID], nil
}

func (s *SessionStore) Swap(_ context.Context, userID, prev, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[userID] != prev {
		return false, nil
	}
	s.slots[userID] = next
	return true, nil
}

func (s *SessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, userID)
	return nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
	clock clock
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: map[string]*entity.Task{}}
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = r.clock.now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *TaskRepository) owned(userID, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *TaskRepository) GetByID(_ context.Context, userID, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (r *TaskRepository) GetByIDs(_ context.Context, userID string, ids []string) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Task, 0, len(ids))
	for _, id := range ids {
		if t, err := r.owned(userID, id); err == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *TaskRepository) List(_ context.Context, f entity.TaskFilter) ([]entity.Task, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(f.Search)
	var matched []entity.Task
	for _, t := range r.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := min(f.Offset(), total)
	end := min(start+f.Limit, total)
	page := make([]entity.Task, 0, end-start)
	page = append(page, matched[start:end]...)
	return page, total, nil
}

func (r *TaskRepository) Update(_ context.Context, userID, id string, p entity.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = r.clock.now()
	cp := *t
	return &cp, nil
}

func (r *TaskRepository) Toggle(_ context.Context, userID, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	t.Status = !t.Status
	t.UpdatedAt = r.clock.now()
	cp := *t
	return &cp, nil
}

func (r *TaskRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.owned(userID, id); err != nil {
		return err
	}
	delete(r.tasks, id)
	return nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.SessionStore   = (*SessionStore)(nil)
	_ repository.TaskRepository = (*TaskRepository)(nil)
)
