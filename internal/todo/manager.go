// Package todo owns the todo list state: the current query, the last
// fetched page and stats, and the mutation flow.
//
// Mutations never patch the in-memory list. Every successful create,
// update, delete or toggle re-fetches both the list and the stats, so the
// displayed items and the displayed counts can never diverge. A failed call
// leaves the prior snapshot untouched.
package todo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"taskdeck/internal/service"
)

var (
	// ErrTitleRequired blocks creation of an untitled todo before any
	// network call is made.
	ErrTitleRequired = errors.New("title is required")

	// ErrPageOutOfRange is returned when a page move is suppressed.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Manager is the todo collection manager.
type Manager struct {
	svc service.Service

	mu     sync.Mutex
	query  service.TodoQuery
	items  []service.TodoItem
	stats  service.TodoStats
	loaded bool
}

// NewManager creates a manager starting from the default query.
func NewManager(svc service.Service) *Manager {
	return &Manager{svc: svc, query: service.DefaultQuery()}
}

// Query returns a copy of the current query.
func (m *Manager) Query() service.TodoQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

// Items returns the last fetched page.
func (m *Manager) Items() []service.TodoItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.TodoItem, len(m.items))
	copy(out, m.items)
	return out
}

// Stats returns the last fetched stats.
func (m *Manager) Stats() service.TodoStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// TotalPages derives the page count from the current stats and limit.
func (m *Manager) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats.TotalPages(m.query.Limit)
}

// resetPage is called whenever a filter field changes, so the next fetch
// never requests a page that no longer exists.
func (m *Manager) resetPage() { m.query.Page = 1 }

// SetStatus filters by completion status and resets to page 1.
func (m *Manager) SetStatus(s service.StatusFilter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.query.Status != s {
		m.query.Status = s
		m.resetPage()
	}
}

// SetCategory filters by category and resets to page 1.
func (m *Manager) SetCategory(c service.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.query.Category != c {
		m.query.Category = c
		m.resetPage()
	}
}

// SetPriority filters by priority and resets to page 1.
func (m *Manager) SetPriority(p service.Priority) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.query.Priority != p {
		m.query.Priority = p
		m.resetPage()
	}
}

// SetSearch filters by free-text search and resets to page 1.
func (m *Manager) SetSearch(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s = strings.TrimSpace(s)
	if m.query.Search != s {
		m.query.Search = s
		m.resetPage()
	}
}

// SetSort changes the sort field and order.
func (m *Manager) SetSort(by, order string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if by != "" {
		m.query.SortBy = by
	}
	if order != "" {
		m.query.SortOrder = order
	}
}

// SetLimit changes the page size and resets to page 1.
func (m *Manager) SetLimit(limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && m.query.Limit != limit {
		m.query.Limit = limit
		m.resetPage()
	}
}

// SetPage jumps to an explicit page. Before the first fetch any page ≥ 1 is
// accepted; afterwards requests outside [1, TotalPages] are suppressed.
func (m *Manager) SetPage(page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page < 1 {
		return ErrPageOutOfRange
	}
	if m.loaded {
		if tp := m.stats.TotalPages(m.query.Limit); tp > 0 && page > tp {
			return ErrPageOutOfRange
		}
	}
	m.query.Page = page
	return nil
}

// NextPage advances one page, suppressed at the last page.
func (m *Manager) NextPage() error {
	m.mu.Lock()
	page := m.query.Page + 1
	m.mu.Unlock()
	return m.SetPage(page)
}

// PrevPage goes back one page, suppressed at page 1.
func (m *Manager) PrevPage() error {
	m.mu.Lock()
	page := m.query.Page - 1
	m.mu.Unlock()
	return m.SetPage(page)
}

// Refresh fetches the stats and list for the current query. Both must
// succeed before either snapshot is replaced. Stats come first so the page
// can be clamped when a mutation shrank the collection under us.
func (m *Manager) Refresh(ctx context.Context) error {
	q := m.Query()

	stats, err := m.svc.TodoStats(ctx, q)
	if err != nil {
		return err
	}
	if tp := stats.TotalPages(q.Limit); tp > 0 && q.Page > tp {
		q.Page = tp
	}

	items, err := m.svc.ListTodos(ctx, q)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.query.Page = q.Page
	m.items = items
	m.stats = stats
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// Create submits a new todo and refreshes.
func (m *Manager) Create(ctx context.Context, draft service.TodoDraft) (service.TodoItem, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return service.TodoItem{}, ErrTitleRequired
	}
	if draft.Category == "" {
		draft.Category = service.CategoryOther
	}
	if draft.Priority == "" {
		draft.Priority = service.PriorityMedium
	}

	item, err := m.svc.CreateTodo(ctx, draft)
	if err != nil {
		return service.TodoItem{}, err
	}
	if err := m.Refresh(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// Get fetches a single todo. No list state changes.
func (m *Manager) Get(ctx context.Context, id string) (service.TodoItem, error) {
	return m.svc.GetTodo(ctx, id)
}

// Update patches a todo and refreshes.
func (m *Manager) Update(ctx context.Context, id string, patch service.TodoPatch) (service.TodoItem, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return service.TodoItem{}, ErrTitleRequired
	}
	item, err := m.svc.UpdateTodo(ctx, id, patch)
	if err != nil {
		return service.TodoItem{}, err
	}
	if err := m.Refresh(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// Delete removes a todo and refreshes.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.svc.DeleteTodo(ctx, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Toggle flips a todo's completed flag and refreshes.
func (m *Manager) Toggle(ctx context.Context, id string) (service.TodoItem, error) {
	item, err := m.svc.ToggleTodo(ctx, id)
	if err != nil {
		return service.TodoItem{}, err
	}
	if err := m.Refresh(ctx); err != nil {
		return item, err
	}
	return item, nil
}
