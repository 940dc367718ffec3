package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"taskdeck/internal/service"
	"taskdeck/internal/todo"
)

// queryFlags are the listing filters shared by list, stats and the
// ref-taking commands.
type queryFlags struct {
	page     int
	limit    int
	status   string
	category string
	priority string
	search   string
	sortBy   string
	order    string
}

func (q *queryFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&q.page, "page", 1, "")
	fs.IntVar(&q.limit, "limit", 0, "")
	fs.StringVar(&q.status, "status", "", "")
	fs.StringVar(&q.category, "category", "", "")
	fs.StringVar(&q.priority, "priority", "", "")
	fs.StringVar(&q.search, "search", "", "")
	fs.StringVar(&q.sortBy, "sort", "", "")
	fs.StringVar(&q.order, "order", "", "")
}

// apply validates the flag values and pushes them into the manager.
// Filters are applied before the page so a filter change landing on page 1
// can still be overridden by an explicit --page.
func (q *queryFlags) apply(mgr *todo.Manager) error {
	switch q.status {
	case "", "completed", "pending":
	default:
		return fmt.Errorf("invalid status: %s (completed or pending)", q.status)
	}
	if q.category != "" && !service.ValidCategory(service.Category(q.category)) {
		return fmt.Errorf("invalid category: %s", q.category)
	}
	if q.priority != "" && !service.ValidPriority(service.Priority(q.priority)) {
		return fmt.Errorf("invalid priority: %s", q.priority)
	}
	switch q.order {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("invalid order: %s (asc or desc)", q.order)
	}
	if q.page < 1 {
		return fmt.Errorf("invalid page number: %d", q.page)
	}

	mgr.SetStatus(service.StatusFilter(q.status))
	mgr.SetCategory(service.Category(q.category))
	mgr.SetPriority(service.Priority(q.priority))
	mgr.SetSearch(q.search)
	mgr.SetSort(q.sortBy, q.order)
	if q.limit > 0 {
		mgr.SetLimit(q.limit)
	}
	return mgr.SetPage(q.page)
}

// errRefOutOfRange distinguishes a bad row number from backend failures.
var errRefOutOfRange = errors.New("todo number out of range")

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveTodoRef turns a ref argument into a concrete todo. An all-digit
// ref is the 1-based row number under the manager's current query (the
// page containing it is fetched); anything else is taken as a server ID.
func resolveTodoRef(ctx context.Context, mgr *todo.Manager, ref string) (service.TodoItem, error) {
	if !isAllDigits(ref) {
		return mgr.Get(ctx, ref)
	}

	num, err := strconv.Atoi(ref)
	if err != nil || num < 1 {
		return service.TodoItem{}, fmt.Errorf("%w: %s", errRefOutOfRange, ref)
	}

	limit := mgr.Query().Limit
	page := (num-1)/limit + 1
	indexInPage := (num - 1) % limit

	if err := mgr.SetPage(page); err != nil {
		return service.TodoItem{}, fmt.Errorf("%w: %d", errRefOutOfRange, num)
	}
	if err := mgr.Refresh(ctx); err != nil {
		return service.TodoItem{}, err
	}

	items := mgr.Items()
	if indexInPage >= len(items) {
		return service.TodoItem{}, fmt.Errorf("%w: %d", errRefOutOfRange, num)
	}
	return items[indexInPage], nil
}

// parseDue parses a --due value.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", s)
	}
	return &t, nil
}
