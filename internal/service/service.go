// Package service defines the backend-agnostic interface for the suite's
// remote API.
package service

import "context"

// Service defines the operations the remote API exposes to the client.
// All HTTP calls go through this interface; managers and commands never
// build requests directly.
type Service interface {
	// Register creates an account and returns the new session.
	Register(ctx context.Context, reg Registration) (UserSession, error)

	// LoginWithPassword authenticates with email and password.
	LoginWithPassword(ctx context.Context, email, password string) (UserSession, error)

	// SendOTP asks the server to email a one-time code.
	SendOTP(ctx context.Context, email string) error

	// VerifyOTP exchanges the emailed code for a session.
	VerifyOTP(ctx context.Context, email, otp string) (UserSession, error)

	// Logout invalidates the session server-side.
	Logout(ctx context.Context) error

	// ValidateToken asks the server who the current credentials belong to.
	// Returns ErrUnauthenticated when the server reports no user.
	ValidateToken(ctx context.Context) (UserSession, error)

	// CreateTodo creates a new todo item.
	CreateTodo(ctx context.Context, draft TodoDraft) (TodoItem, error)

	// ListTodos returns the page of todos selected by q.
	ListTodos(ctx context.Context, q TodoQuery) ([]TodoItem, error)

	// TodoStats returns aggregate counts under q's filters.
	TodoStats(ctx context.Context, q TodoQuery) (TodoStats, error)

	// GetTodo fetches a single todo by ID.
	GetTodo(ctx context.Context, id string) (TodoItem, error)

	// UpdateTodo applies a patch to an existing todo.
	UpdateTodo(ctx context.Context, id string, patch TodoPatch) (TodoItem, error)

	// DeleteTodo removes a todo.
	DeleteTodo(ctx context.Context, id string) error

	// ToggleTodo flips a todo's completed flag server-side.
	ToggleTodo(ctx context.Context, id string) (TodoItem, error)
}
