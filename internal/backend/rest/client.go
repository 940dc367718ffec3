// Package rest implements the service.Service interface against the suite's
// HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// APITimeout is the timeout for API calls.
const APITimeout = 10 * time.Second

// ErrNoToken is returned by the token source when no token is cached.
var ErrNoToken = errors.New("no token stored")

// Client implements service.Service over the suite's REST API.
type Client struct {
	base     *url.URL
	http     *http.Client
	store    session.Store
	tokens   oauth2.TokenSource
	cacheTTL time.Duration
	log      *slog.Logger
}

// New creates a client for the API at cfg.Settings.APIBaseURL. The token
// storage strategy comes from config: "bearer" reads the cached token from
// store and sends it as an Authorization header; "cookie" restores the
// persisted cookie jar and sends no header.
func New(cfg *config.Config, store session.Store, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.Settings.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api_base_url: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		base:     base,
		http:     &http.Client{},
		store:    store,
		cacheTTL: time.Duration(cfg.Settings.SessionTTLDays) * 24 * time.Hour,
		log:      log,
	}

	switch cfg.Settings.TokenStorage {
	case config.TokenStorageCookie:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
		c.restoreCookies()
	default:
		c.tokens = oauth2.ReuseTokenSource(nil, &storeTokenSource{store: store})
	}

	return c, nil
}

// storeTokenSource reads the bearer token from the session store on demand.
// It never refreshes; the server issues a new token on each login.
type storeTokenSource struct {
	store session.Store
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	var raw string
	if !s.store.Read(session.AuthTokenKey, &raw) || raw == "" {
		return nil, ErrNoToken
	}
	if session.TokenExpired(raw, time.Now()) {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

// persistedCookie is the subset of cookie state worth keeping across runs.
type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Client) restoreCookies() {
	var saved []persistedCookie
	if !c.store.Read(session.CookiesKey, &saved) {
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, pc := range saved {
		cookies = append(cookies, &http.Cookie{Name: pc.Name, Value: pc.Value})
	}
	c.http.Jar.SetCookies(c.base, cookies)
}

func (c *Client) persistCookies() {
	if c.http.Jar == nil {
		return
	}
	cookies := c.http.Jar.Cookies(c.base)
	saved := make([]persistedCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, persistedCookie{Name: ck.Name, Value: ck.Value})
	}
	if err := c.store.Write(session.CookiesKey, saved, c.cacheTTL); err != nil {
		c.log.Debug("persist cookies", "err", err)
	}
}

func (c *Client) clearCookies() {
	_ = c.store.Clear(session.CookiesKey)
	if c.http.Jar != nil {
		// Replace the jar; net/http offers no way to empty one.
		if jar, err := cookiejar.New(nil); err == nil {
			c.http.Jar = jar
		}
	}
}

// saveToken caches the server-issued token in bearer mode. Cookie mode
// ignores body tokens; the jar carries auth.
func (c *Client) saveToken(token string) {
	if c.tokens == nil || token == "" {
		return
	}
	if err := c.store.Write(session.AuthTokenKey, token, c.cacheTTL); err != nil {
		c.log.Debug("persist token", "err", err)
	}
}

// wireError is the error body shape: non-2xx responses carry {message}.
type wireError struct {
	Message string `json:"message"`
}

// do executes one API call. Every call gets its own timeout and request ID.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := *c.base
	u.Path, _ = url.JoinPath(u.Path, path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil {
			tok.SetAuthHeader(req)
		}
	}

	c.log.Debug("api request", "method", method, "url", u.String())

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &service.NetworkError{Err: errors.New("request timed out")}
		}
		return &service.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &service.NetworkError{Err: err}
	}

	c.log.Debug("api response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var we wireError
		_ = json.Unmarshal(data, &we)
		if we.Message == "" {
			we.Message = "API request failed"
		}
		return &service.APIError{Status: resp.StatusCode, Message: we.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &service.NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// wireUser is the user object as the server sends it. The server's id field
// becomes UserSession.UserID.
type wireUser struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	City     string    `json:"city"`
	Mobile   string    `json:"mobile"`
	Role     string    `json:"role"`
	JoinDate time.Time `json:"joinDate"`
}

func (u wireUser) session() service.UserSession {
	return service.UserSession{
		UserID:        u.ID,
		Name:          u.Name,
		Email:         u.Email,
		City:          u.City,
		Mobile:        u.Mobile,
		Role:          u.Role,
		JoinDate:      u.JoinDate,
		Authenticated: true,
	}
}

// authResponse is the body of register/login/verify-otp/validate-token.
type authResponse struct {
	User  *wireUser `json:"user"`
	Token string    `json:"token"`
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, reg service.Registration) (service.UserSession, error) {
	body := map[string]string{
		"name":            reg.Name,
		"email":           reg.Email,
		"city":            reg.City,
		"mobile":          reg.Mobile,
		"password":        reg.Password,
		"confirmPassword": reg.ConfirmPassword,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "auth/register", nil, body, &resp); err != nil {
		return service.UserSession{}, err
	}
	if resp.User == nil {
		return service.UserSession{}, &service.NetworkError{Err: errors.New("no user in response")}
	}
	c.saveToken(resp.Token)
	c.persistCookies()
	return resp.User.session(), nil
}

// LoginWithPassword implements service.Service.
func (c *Client) LoginWithPassword(ctx context.Context, email, password string) (service.UserSession, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, body, &resp); err != nil {
		return service.UserSession{}, err
	}
	if resp.User == nil {
		return service.UserSession{}, &service.NetworkError{Err: errors.New("no user in response")}
	}
	c.saveToken(resp.Token)
	c.persistCookies()
	return resp.User.session(), nil
}

// SendOTP implements service.Service.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "auth/send-otp", nil, map[string]string{"email": email}, nil)
}

// VerifyOTP implements service.Service.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (service.UserSession, error) {
	body := map[string]string{"email": email, "otp": otp}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "auth/verify-otp", nil, body, &resp); err != nil {
		return service.UserSession{}, err
	}
	if resp.User == nil {
		return service.UserSession{}, &service.NetworkError{Err: errors.New("no user in response")}
	}
	c.saveToken(resp.Token)
	c.persistCookies()
	return resp.User.session(), nil
}

// Logout implements service.Service. Local cookie state is dropped whatever
// the server said.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
	c.clearCookies()
	return err
}

// ValidateToken implements service.Service.
func (c *Client) ValidateToken(ctx context.Context) (service.UserSession, error) {
	if c.tokens != nil {
		if _, err := c.tokens.Token(); err != nil {
			return service.UserSession{}, service.ErrUnauthenticated
		}
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodGet, "auth/validate-token", nil, nil, &resp); err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return service.UserSession{}, service.ErrUnauthenticated
		}
		return service.UserSession{}, err
	}
	if resp.User == nil {
		return service.UserSession{}, service.ErrUnauthenticated
	}
	c.persistCookies()
	return resp.User.session(), nil
}

// wireTodo is a todo record as the server sends it.
type wireTodo struct {
	ID          string           `json:"_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    service.Category `json:"category"`
	Priority    service.Priority `json:"priority"`
	Completed   bool             `json:"completed"`
	DueDate     *time.Time       `json:"dueDate"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (t wireTodo) item() service.TodoItem {
	return service.TodoItem{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	}
}

func encodeQuery(q service.TodoQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.Status != service.StatusAll {
		v.Set("status", string(q.Status))
	}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Priority != "" {
		v.Set("priority", string(q.Priority))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// CreateTodo implements service.Service.
func (c *Client) CreateTodo(ctx context.Context, draft service.TodoDraft) (service.TodoItem, error) {
	var resp struct {
		Todo wireTodo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPost, "todos", nil, draft, &resp); err != nil {
		return service.TodoItem{}, err
	}
	return resp.Todo.item(), nil
}

// ListTodos implements service.Service.
func (c *Client) ListTodos(ctx context.Context, q service.TodoQuery) ([]service.TodoItem, error) {
	var resp struct {
		Todos []wireTodo `json:"todos"`
	}
	if err := c.do(ctx, http.MethodGet, "todos", encodeQuery(q), nil, &resp); err != nil {
		return nil, err
	}
	items := make([]service.TodoItem, 0, len(resp.Todos))
	for _, t := range resp.Todos {
		items = append(items, t.item())
	}
	return items, nil
}

// TodoStats implements service.Service.
func (c *Client) TodoStats(ctx context.Context, q service.TodoQuery) (service.TodoStats, error) {
	var resp struct {
		Stats service.TodoStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "todos/stats", encodeQuery(q), nil, &resp); err != nil {
		return service.TodoStats{}, err
	}
	return resp.Stats, nil
}

// GetTodo implements service.Service.
func (c *Client) GetTodo(ctx context.Context, id string) (service.TodoItem, error) {
	var resp struct {
		Todo wireTodo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodGet, "todos/"+id, nil, nil, &resp); err != nil {
		return service.TodoItem{}, notFoundOr(err)
	}
	return resp.Todo.item(), nil
}

// UpdateTodo implements service.Service.
func (c *Client) UpdateTodo(ctx context.Context, id string, patch service.TodoPatch) (service.TodoItem, error) {
	var resp struct {
		Todo wireTodo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPut, "todos/"+id, nil, patch, &resp); err != nil {
		return service.TodoItem{}, notFoundOr(err)
	}
	return resp.Todo.item(), nil
}

// DeleteTodo implements service.Service.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "todos/"+id, nil, nil, nil); err != nil {
		return notFoundOr(err)
	}
	return nil
}

// ToggleTodo implements service.Service.
func (c *Client) ToggleTodo(ctx context.Context, id string) (service.TodoItem, error) {
	var resp struct {
		Todo wireTodo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPatch, "todos/"+id+"/toggle", nil, nil, &resp); err != nil {
		return service.TodoItem{}, notFoundOr(err)
	}
	return resp.Todo.item(), nil
}

// notFoundOr maps a 404 APIError onto the sentinel so callers can
// distinguish "no such todo" from other failures.
func notFoundOr(err error) error {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", service.ErrNotFound, apiErr.Message)
	}
	return err
}
