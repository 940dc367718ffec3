// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	user   service.UserSession
	todos  []service.TodoItem
	nextID int

	// SentOTPs records every email SendOTP was called with.
	SentOTPs []string
	// AcceptOTP is the code VerifyOTP accepts. Defaults to "123456".
	AcceptOTP string

	// Error injection for testing
	RegisterErr      error
	LoginErr         error
	SendOTPErr       error
	VerifyOTPErr     error
	LogoutErr        error
	ValidateTokenErr error
	CreateTodoErr    error
	ListTodosErr     error
	TodoStatsErr     error
	GetTodoErr       error
	UpdateTodoErr    error
	DeleteTodoErr    error
	ToggleTodoErr    error
}

// NewFakeService creates a FakeService with a default signed-in user.
func NewFakeService() *FakeService {
	return &FakeService{
		user: service.UserSession{
			UserID:        "u1",
			Name:          "Test User",
			Email:         "test@example.com",
			City:          "Pune",
			Mobile:        "9876543210",
			Role:          "user",
			JoinDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Authenticated: true,
		},
		AcceptOTP: "123456",
	}
}

// SetUser replaces the session ValidateToken and the login calls return.
func (f *FakeService) SetUser(u service.UserSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
}

// AddTodo seeds a todo and returns its assigned ID. CreatedAt is staggered
// so that insertion order and createdAt order agree.
func (f *FakeService) AddTodo(title string, category service.Category, priority service.Priority, completed bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("t%d", f.nextID)
	f.todos = append(f.todos, service.TodoItem{
		ID:        id,
		Title:     title,
		Category:  category,
		Priority:  priority,
		Completed: completed,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	})
	return id
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) (service.UserSession, error) {
	if f.RegisterErr != nil {
		return service.UserSession{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = service.UserSession{
		UserID:        "u1",
		Name:          reg.Name,
		Email:         reg.Email,
		City:          reg.City,
		Mobile:        reg.Mobile,
		Role:          "user",
		Authenticated: true,
	}
	return f.user, nil
}

// LoginWithPassword implements service.Service.
func (f *FakeService) LoginWithPassword(ctx context.Context, email, password string) (service.UserSession, error) {
	if f.LoginErr != nil {
		return service.UserSession{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// SendOTP implements service.Service.
func (f *FakeService) SendOTP(ctx context.Context, email string) error {
	if f.SendOTPErr != nil {
		return f.SendOTPErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SentOTPs = append(f.SentOTPs, email)
	return nil
}

// VerifyOTP implements service.Service.
func (f *FakeService) VerifyOTP(ctx context.Context, email, otp string) (service.UserSession, error) {
	if f.VerifyOTPErr != nil {
		return service.UserSession{}, f.VerifyOTPErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if otp != f.AcceptOTP {
		return service.UserSession{}, &service.APIError{Status: 401, Message: "Invalid OTP"}
	}
	return f.user, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	return f.LogoutErr
}

// ValidateToken implements service.Service.
func (f *FakeService) ValidateToken(ctx context.Context) (service.UserSession, error) {
	if f.ValidateTokenErr != nil {
		return service.UserSession{}, f.ValidateTokenErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// CreateTodo implements service.Service.
func (f *FakeService) CreateTodo(ctx context.Context, draft service.TodoDraft) (service.TodoItem, error) {
	if f.CreateTodoErr != nil {
		return service.TodoItem{}, f.CreateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item := service.TodoItem{
		ID:          fmt.Sprintf("t%d", f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	}
	f.todos = append(f.todos, item)
	return item, nil
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context, q service.TodoQuery) ([]service.TodoItem, error) {
	if f.ListTodosErr != nil {
		return nil, f.ListTodosErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	matched := f.filter(q)
	sortTodos(matched, q.SortBy, q.SortOrder)

	start := (q.Page - 1) * q.Limit
	if start >= len(matched) || start < 0 {
		return nil, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// TodoStats implements service.Service.
func (f *FakeService) TodoStats(ctx context.Context, q service.TodoQuery) (service.TodoStats, error) {
	if f.TodoStatsErr != nil {
		return service.TodoStats{}, f.TodoStatsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var stats service.TodoStats
	for _, t := range f.filter(q) {
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
	}
	return stats, nil
}

// GetTodo implements service.Service.
func (f *FakeService) GetTodo(ctx context.Context, id string) (service.TodoItem, error) {
	if f.GetTodoErr != nil {
		return service.TodoItem{}, f.GetTodoErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return service.TodoItem{}, fmt.Errorf("%w: %s", service.ErrNotFound, id)
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id string, patch service.TodoPatch) (service.TodoItem, error) {
	if f.UpdateTodoErr != nil {
		return service.TodoItem{}, f.UpdateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		t := &f.todos[i]
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		return *t, nil
	}
	return service.TodoItem{}, fmt.Errorf("%w: %s", service.ErrNotFound, id)
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	if f.DeleteTodoErr != nil {
		return f.DeleteTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", service.ErrNotFound, id)
}

// ToggleTodo implements service.Service.
func (f *FakeService) ToggleTodo(ctx context.Context, id string) (service.TodoItem, error) {
	if f.ToggleTodoErr != nil {
		return service.TodoItem{}, f.ToggleTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Completed = !f.todos[i].Completed
			return f.todos[i], nil
		}
	}
	return service.TodoItem{}, fmt.Errorf("%w: %s", service.ErrNotFound, id)
}

// filter applies q's filters (not pagination). Callers hold f.mu.
func (f *FakeService) filter(q service.TodoQuery) []service.TodoItem {
	var out []service.TodoItem
	for _, t := range f.todos {
		if q.Status == service.StatusCompleted && !t.Completed {
			continue
		}
		if q.Status == service.StatusPending && t.Completed {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func sortTodos(todos []service.TodoItem, sortBy, order string) {
	less := func(a, b service.TodoItem) bool {
		switch sortBy {
		case "title":
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(todos, func(i, j int) bool {
		if order == "asc" {
			return less(todos[i], todos[j])
		}
		return less(todos[j], todos[i])
	})
}
