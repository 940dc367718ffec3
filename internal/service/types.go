// Package service defines the backend-agnostic interface for the suite's
// remote API.
package service

import "time"

// UserSession is the normalized record of the currently authenticated user.
// It is either fully populated with Authenticated set, or absent entirely;
// there is no partial or anonymous session state.
type UserSession struct {
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	City          string    `json:"city"`
	Mobile        string    `json:"mobile"`
	Role          string    `json:"role"`
	JoinDate      time.Time `json:"joinDate"`
	Authenticated bool      `json:"isAuthenticated"`
}

// Registration carries the fields of a registration submission.
type Registration struct {
	Name            string
	Email           string
	City            string
	Mobile          string
	Password        string
	ConfirmPassword string
}

// Category classifies a todo item.
type Category string

// Valid categories. The server rejects anything else.
const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// Priority ranks a todo item.
type Priority string

// Valid priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TodoItem is a single todo record. ID is assigned by the server and never
// changes.
type TodoItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TodoDraft holds the fields of a new todo submission.
type TodoDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TodoPatch holds the mutable fields of an update. Nil fields are left
// untouched by the server.
type TodoPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// StatusFilter narrows a listing to completed or pending items.
type StatusFilter string

// Status filter values. Empty means no filter.
const (
	StatusAll       StatusFilter = ""
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// TodoQuery describes a list/stats request: pagination, sorting and optional
// filters. Page is 1-based.
type TodoQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Status    StatusFilter
	Category  Category
	Priority  Priority
	Search    string
}

// DefaultQuery returns the query used when nothing else is specified,
// matching the suite's default listing.
func DefaultQuery() TodoQuery {
	return TodoQuery{
		Page:      1,
		Limit:     10,
		SortBy:    "createdAt",
		SortOrder: "desc",
	}
}

// TodoStats holds aggregate counts for the current query's filters.
type TodoStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// CompletionPercent is the rounded completed/total percentage, 0 when the
// collection is empty.
func (s TodoStats) CompletionPercent() int {
	if s.Total == 0 {
		return 0
	}
	return int(float64(s.Completed)/float64(s.Total)*100 + 0.5)
}

// TotalPages derives the page count for the given page size.
func (s TodoStats) TotalPages(limit int) int {
	if limit <= 0 {
		return 0
	}
	return (s.Total + limit - 1) / limit
}
